// internal/app/features/account/routes.go
package account

import "github.com/go-chi/chi/v5"

// LoginRoutes is mounted at /login.
func LoginRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLogin)
	return r
}

// RegisterRoutes is mounted at /register.
func RegisterRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRegister)
	r.Post("/", h.HandleRegister)
	return r
}
