// internal/app/features/users/routes.go
package usersfeature

import "github.com/go-chi/chi/v5"

// Routes returns the router for the admin user endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Put("/{id}/role", h.UpdateRole)

	return r
}
