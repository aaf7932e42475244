// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Put("/", h.HandleUpdate)
	r.Post("/password", h.HandleChangePassword)
	r.Get("/logins", h.ServeLogins)
	return r
}
