// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member routes.
// Typically: r.Mount("/members", members.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeMember)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
