// internal/app/features/adminsetup/handler.go
package adminsetup

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	rolestore "github.com/dalemusser/casadefe/internal/app/store/roles"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler lets a signed-in user claim the admin role with the configured
// setup key. An empty key disables the claim.
type Handler struct {
	DB         *mongo.Database
	SessionMgr *auth.SessionManager
	SetupKey   string
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, setupKey string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		SessionMgr: sm,
		SetupKey:   strings.TrimSpace(setupKey),
		Log:        logger,
		ErrLog:     errLog,
	}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.SessionMgr.RequireSignedIn)
	r.Get("/status", h.ServeStatus)
	r.Post("/", h.HandleClaim)
	return r
}

type statusResponse struct {
	IsAdmin      bool `json:"is_admin"`
	SetupEnabled bool `json:"setup_enabled"`
}

// ServeStatus reports whether the caller holds the admin role, read from
// the store rather than the session.
// GET /admin-setup/status
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	is, err := rolestore.New(h.DB).IsAdmin(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load role failed", err, "Não foi possível verificar o acesso.")
		return
	}
	respond.OK(w, statusResponse{IsAdmin: is, SetupEnabled: h.SetupKey != ""})
}

type claimInput struct {
	Key string `json:"key"`
}

// HandleClaim grants the caller the admin role when the key matches.
// Claiming twice is harmless.
// POST /admin-setup
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	if h.SetupKey == "" {
		uierrors.NotFound(w, "Configuração de administrador desativada.")
		return
	}

	var in claimInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode admin setup failed", err, "Dados inválidos.")
		return
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(in.Key)), []byte(h.SetupKey)) != 1 {
		h.Log.Warn("admin setup key mismatch", zap.String("user_id", uid.Hex()))
		uierrors.Forbidden(w, "Chave de configuração inválida.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	changed, err := rolestore.New(h.DB).EnsureAdmin(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "grant admin failed", err, "Não foi possível conceder o acesso.")
		return
	}

	// Refresh the session so the new role applies immediately.
	su := *u
	su.Role = models.RoleAdmin
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Não foi possível conceder o acesso.")
		return
	}
	if su.SelectedCasaID != "" {
		if err := h.SessionMgr.SetSelectedCasa(w, r, su.SelectedCasaID); err != nil {
			h.Log.Warn("restore selected casa failed", zap.Error(err))
		}
	}

	if changed {
		h.Log.Info("admin role granted", zap.String("user_id", uid.Hex()))
	}
	respond.OK(w, map[string]any{"is_admin": true, "changed": changed})
}
