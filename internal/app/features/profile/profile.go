// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/authutil"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.uber.org/zap"
)

// profileData is the profile payload.
type profileData struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PhoneDisplay  string `json:"phone_display"`
	Role          string `json:"role"`
	PasswordRules string `json:"password_rules"`
}

type profileInput struct {
	FullName string `json:"full_name" validate:"required,max=200" label:"Nome"`
	Email    string `json:"email" validate:"omitempty,email" label:"E-mail"`
	Phone    string `json:"phone" validate:"omitempty,phone" label:"Telefone"`
}

type passwordInput struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toData(u models.User, role string) profileData {
	ph := strOrEmpty(u.Phone)
	return profileData{
		ID:            u.ID.Hex(),
		FullName:      u.FullName,
		Email:         strOrEmpty(u.Email),
		Phone:         ph,
		PhoneDisplay:  phone.Format(ph),
		Role:          role,
		PasswordRules: authutil.PasswordRules(),
	}
}

// ServeProfile returns the signed-in user's profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, "Usuário não encontrado.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "Não foi possível carregar o perfil.")
		return
	}
	respond.OK(w, toData(user, role))
}

// HandleUpdate changes name, email and phone. One of email or phone must
// remain, since they are the sign-in identifiers.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	var in profileInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile failed", err, "Dados inválidos.")
		return
	}
	in.FullName = normalize.Name(in.FullName)
	in.Email = normalize.Email(in.Email)
	in.Phone = phone.Digits(in.Phone)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	err := users.UpdateProfile(ctx, uid, in.FullName, strPtr(in.Email), strPtr(in.Phone))
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Invalid(w, "Este e-mail já está em uso.", map[string]string{"email": "Este e-mail já está em uso."})
		return
	case errors.Is(err, userstore.ErrDuplicatePhone):
		respond.Invalid(w, "Este telefone já está em uso.", map[string]string{"phone": "Este telefone já está em uso."})
		return
	case errors.Is(err, userstore.ErrNoLogin):
		respond.Invalid(w, "Informe e-mail ou telefone.", map[string]string{"email": "Informe e-mail ou telefone."})
		return
	case errors.Is(err, userstore.ErrNotFound):
		uierrors.NotFound(w, "Usuário não encontrado.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Não foi possível salvar o perfil.")
		return
	}

	user, err := users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload profile failed", err, "Não foi possível carregar o perfil.")
		return
	}
	h.Log.Info("profile updated", zap.String("user_id", uid.Hex()))
	respond.OK(w, toData(user, role))
}

// HandleChangePassword replaces the password after checking the current
// one.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	var in passwordInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password change failed", err, "Dados inválidos.")
		return
	}
	if err := authutil.ValidatePassword(in.New); err != nil {
		msg := authutil.Message(err)
		respond.Invalid(w, msg, map[string]string{"new_password": msg})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	user, err := users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, "Usuário não encontrado.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "Não foi possível alterar a senha.")
		return
	}
	if !authutil.CheckPassword(in.Current, user.PasswordHash) {
		respond.Invalid(w, "Senha atual incorreta.", map[string]string{"current_password": "Senha atual incorreta."})
		return
	}

	hash, err := authutil.HashPassword(in.New)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Não foi possível alterar a senha.")
		return
	}
	if err := users.SetPasswordHash(ctx, uid, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", err, "Não foi possível alterar a senha.")
		return
	}
	h.Log.Info("password changed", zap.String("user_id", uid.Hex()))
	respond.NoContent(w)
}
