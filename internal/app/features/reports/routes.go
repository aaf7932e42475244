// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the report routes.
// Typically: r.Mount("/reports", reports.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireSignedIn)
		// Casa ownership is enforced inside the handlers.
		rr.Get("/", h.ServeList)
		rr.Post("/", h.HandleSubmit)
		rr.Get("/pending", h.ServePending)
		rr.Get("/new", h.ServeNew)
		rr.Get("/{id}", h.ServeReport)
	})

	return r
}
