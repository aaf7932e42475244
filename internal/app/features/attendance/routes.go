// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the attendance endpoints, mounted under /attendance.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSheet)
	r.Post("/", h.HandleSave)
	r.Get("/dates", h.ServeDates)
	return r
}
