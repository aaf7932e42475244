// internal/app/features/content/routes.go
package content

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the feed routes.
// Typically: r.Mount("/content", content.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/words", h.ListWords)
		pr.Get("/words/{id}", h.ShowWord)
		pr.Group(func(ar chi.Router) {
			ar.Use(sm.RequireRole(models.RoleAdmin, models.RoleModerator))
			ar.Post("/words", h.CreateWord)
			ar.Delete("/words/{id}", h.DeleteWord)
		})

		pr.Get("/testimonies", h.ListTestimonies)
		pr.Post("/testimonies", h.CreateTestimony)
		pr.Delete("/testimonies/{id}", h.DeleteTestimony)

		pr.Get("/prayers", h.ListPrayers)
		pr.Post("/prayers", h.CreatePrayer)
		pr.Delete("/prayers/{id}", h.DeletePrayer)
	})

	return r
}
