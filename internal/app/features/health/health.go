// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler provides health check endpoints.
type Handler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHandler creates a new health check Handler.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with /health (full check), /health/ready and
// /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the probe endpoints /ready, /readyz and /livez to
// the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.db.Ping(ctx, readpref.Primary())
}

// Check performs a full health check including database connectivity.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{Status: "ok", Services: map[string]string{"mongodb": "ok"}}
	status := http.StatusOK

	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Services["mongodb"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready reports whether the service can serve requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live reports that the process is up.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
