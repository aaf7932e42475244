// internal/app/features/casas/routes.go
package casas

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the casa endpoints, mounted under /casas.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Get("/current", h.ServeCurrent)
	r.Post("/select", h.HandleSelect)
	r.Get("/{id}", h.ServeCasa)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/whatsapp", h.ServeWhatsApp)
	r.Get("/{id}/qr.png", h.ServeQR)
	return r
}
