// internal/app/features/login/login.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	loginstore "github.com/dalemusser/casadefe/internal/app/store/logins"
	rolestore "github.com/dalemusser/casadefe/internal/app/store/roles"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/authutil"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.uber.org/zap"
)

const badCredentials = "E-mail/telefone ou senha inválidos."

type loginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// sessionView is what the client sees of its session.
type sessionView struct {
	Authenticated  bool   `json:"authenticated"`
	UserID         string `json:"user_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Login          string `json:"login,omitempty"`
	Role           string `json:"role,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
	SelectedCasaID string `json:"selected_casa_id,omitempty"`
}

func viewOf(u auth.SessionUser) sessionView {
	return sessionView{
		Authenticated:  true,
		UserID:         u.ID,
		Name:           u.Name,
		Login:          u.Login,
		Role:           u.Role,
		IsAdmin:        u.Role == models.RoleAdmin,
		SelectedCasaID: u.SelectedCasaID,
	}
}

func methodOf(login string) string {
	if userstore.IsEmailLogin(login) {
		return models.LoginMethodEmail
	}
	return models.LoginMethodPhone
}

// HandleLoginPost signs in with email or phone plus password.
// POST /login
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login failed", err, "Dados inválidos.")
		return
	}
	in.Login = strings.TrimSpace(in.Login)
	if in.Login == "" || in.Password == "" {
		respond.Invalid(w, "Informe login e senha.", map[string]string{"login": "Informe e-mail ou telefone e a senha."})
		return
	}

	if ok, msg := h.Limiter.Check(r, in.Login); !ok {
		h.Log.Warn("login rate limited", zap.String("method", methodOf(in.Login)))
		respond.Error(w, http.StatusTooManyRequests, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	user, err := users.GetByLogin(ctx, in.Login)
	if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "Não foi possível entrar.")
		return
	}
	if err != nil || !authutil.CheckPassword(in.Password, user.PasswordHash) {
		if h.Metrics != nil {
			h.Metrics.LoginFailures.Inc()
		}
		respond.Error(w, http.StatusUnauthorized, badCredentials)
		return
	}

	role, err := rolestore.New(h.DB).Get(ctx, user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load role failed", err, "Não foi possível entrar.")
		return
	}
	su := auth.SessionUser{ID: user.ID.Hex(), Name: user.FullName, Login: user.LoginLabel(), Role: role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Não foi possível entrar.")
		return
	}
	h.Limiter.ResetLogin(in.Login)

	// Bookkeeping failures never block a sign-in.
	if err := users.TouchLogin(ctx, user.ID); err != nil {
		h.Log.Warn("touch last login failed", zap.Error(err))
	}
	if err := loginstore.New(h.DB).CreateFrom(ctx, r, user.ID, methodOf(in.Login)); err != nil {
		h.Log.Warn("record login failed", zap.Error(err))
	}

	h.Log.Info("user signed in", zap.String("user_id", su.ID), zap.String("role", role))
	respond.OK(w, viewOf(su))
}

// ServeSession reports the current session. Anonymous callers get
// authenticated=false rather than an error.
// GET /login/session
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.OK(w, sessionView{})
		return
	}
	respond.OK(w, viewOf(*u))
}
