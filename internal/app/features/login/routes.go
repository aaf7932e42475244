// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLoginPost)
	r.Post("/signup", h.HandleSignup)
	r.Get("/session", h.ServeSession)
	return r
}
