// internal/app/features/stats/routes.go
package statsfeature

import "github.com/go-chi/chi/v5"

// Routes returns the router for the stats feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	return r
}
