// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the console. Every route is a read, so moderators get the
// same access as admins.
// Typically: r.Mount("/admin", admin.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleModerator))

		pr.Get("/casas", h.ServeCasas)
		pr.Get("/casas/export.{format}", h.ServeCasasExport)
		pr.Get("/casas/{id}", h.ServeCasa)
		pr.Get("/members", h.ServeMembers)
		pr.Get("/members/export.{format}", h.ServeMembersExport)
		pr.Get("/reports", h.ServeReports)
		pr.Get("/pending", h.ServePending)
		pr.Get("/analytics", h.ServeAnalytics)
	})

	return r
}
