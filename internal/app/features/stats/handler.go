// internal/app/features/stats/handler.go
package statsfeature

import (
	"context"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataevents/internal/app/features/errors"
	eventstore "github.com/dalemusser/strataevents/internal/app/store/events"
	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles dashboard statistics requests.
type Handler struct {
	Users  *userstore.Store
	Events *eventstore.Store
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger

	now func() time.Time
}

// NewHandler creates a new stats handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Events: eventstore.New(db),
		ErrLog: errLog,
		Log:    logger,
		now:    time.Now,
	}
}

// Dashboard is the body of GET /stats.
type Dashboard struct {
	TotalMembers   int64 `json:"totalMembers"`
	TotalEvents    int64 `json:"totalEvents"`
	UpcomingEvents int64 `json:"upcomingEvents"`
}

// ServeDashboard handles GET /stats.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var d Dashboard
	var err error

	if d.TotalMembers, err = h.Users.Count(ctx, bson.M{}); err != nil {
		h.ErrLog.Log(r, "failed to count users", err)
		jsonutil.ServerError(w)
		return
	}
	if d.TotalEvents, err = h.Events.Count(ctx); err != nil {
		h.ErrLog.Log(r, "failed to count events", err)
		jsonutil.ServerError(w)
		return
	}
	if d.UpcomingEvents, err = h.Events.CountUpcoming(ctx, h.now()); err != nil {
		h.ErrLog.Log(r, "failed to count upcoming events", err)
		jsonutil.ServerError(w)
		return
	}

	jsonutil.OK(w, d)
}
