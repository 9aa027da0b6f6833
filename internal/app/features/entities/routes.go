// internal/app/features/entities/routes.go
package entities

import (
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts one record type's pages under its base path.
func Routes[T any](h *Handler[T], sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in user may browse.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(h.Kind.DeleteRoles...))
		pr.Get("/{id}/delete", h.ServeDelete)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}

func mount[T any](r chi.Router, sm *auth.SessionManager, k *Kind[T], deps Deps) {
	r.Mount(k.Base, Routes(NewHandler(k, deps), sm))
}

// Mount wires every record type into r.
func Mount(r chi.Router, sm *auth.SessionManager, deps Deps) {
	mount(r, sm, Reports(), deps)
	mount(r, sm, Donations(), deps)
	mount(r, sm, Volunteers(), deps)
	mount(r, sm, Tasks(), deps)
	mount(r, sm, Assignments(), deps)
}
