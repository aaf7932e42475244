// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/authutil"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.uber.org/zap"
)

type signupInput struct {
	FullName string `json:"full_name" validate:"required,max=200" label:"Nome"`
	Email    string `json:"email" validate:"omitempty,email" label:"E-mail"`
	Phone    string `json:"phone" validate:"omitempty,phone" label:"Telefone"`
	Password string `json:"password"`
}

func (in *signupInput) normalize() {
	in.FullName = normalize.Name(in.FullName)
	in.Email = normalize.Email(in.Email)
	in.Phone = phone.Digits(in.Phone)
}

// validate returns the per-field problems, including the login and
// password rules the struct tags cannot express.
func (in signupInput) validate() inputval.Result {
	res := inputval.Validate(in)
	if in.Email == "" && in.Phone == "" {
		res.Add("email", "Informe e-mail ou telefone.")
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		res.Add("password", authutil.Message(err))
	}
	return res
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// HandleSignup creates an account with email and/or phone and signs it in.
// POST /login/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode signup failed", err, "Dados inválidos.")
		return
	}
	in.normalize()
	if res := in.validate(); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Não foi possível criar a conta.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).Create(ctx, models.User{
		FullName:     in.FullName,
		Email:        optional(in.Email),
		Phone:        optional(in.Phone),
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Invalid(w, "Este e-mail já está cadastrado.", map[string]string{"email": "Este e-mail já está cadastrado."})
		return
	case errors.Is(err, userstore.ErrDuplicatePhone):
		respond.Invalid(w, "Este telefone já está cadastrado.", map[string]string{"phone": "Este telefone já está cadastrado."})
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Não foi possível criar a conta.")
		return
	}

	su := auth.SessionUser{ID: user.ID.Hex(), Name: user.FullName, Login: user.LoginLabel(), Role: models.RoleUser}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Conta criada, mas não foi possível entrar.")
		return
	}
	h.Log.Info("user signed up", zap.String("user_id", su.ID))
	respond.Created(w, viewOf(su))
}
