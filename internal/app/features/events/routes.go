// internal/app/features/events/routes.go
package eventsfeature

import "github.com/go-chi/chi/v5"

// Routes returns the router for the admin event endpoints. Authentication
// and the admin role check are applied by the parent /api/admin group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/all", h.All)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/registrations", h.Registrations)

	return r
}
