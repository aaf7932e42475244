// internal/app/features/registration/routes.go
package registration

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the wizard endpoints, mounted under /registration.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDraft)
	r.Delete("/", h.HandleDiscard)
	r.Post("/steps/{step}", h.HandleStep)
	r.Post("/submit", h.HandleSubmit)
	r.Get("/casas", h.ServeMyCasas)
	r.Post("/casas/{id}/edit", h.HandleEdit)
	r.Post("/casas/{id}/delete", h.HandleDelete)
	return r
}
