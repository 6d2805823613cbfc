// internal/app/features/events/handler.go
package eventsfeature

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/strataevents/internal/app/features/errors"
	eventstore "github.com/dalemusser/strataevents/internal/app/store/events"
	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/auditlog"
	"github.com/dalemusser/strataevents/internal/app/system/authz"
	"github.com/dalemusser/strataevents/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataevents/internal/app/system/inputval"
	"github.com/dalemusser/strataevents/internal/app/system/jsonutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalidJSON    = "Invalid JSON payload"
	msgInvalidID      = "Invalid event id"
	msgNotFound       = "Event not found"
	msgDeleted        = "Event removed"
	msgFetchEvents    = "Error fetching events"
	msgFetchRegs      = "Error fetching registrations"
	msgInvalidEventDt = "Date must be an RFC 3339 timestamp or YYYY-MM-DD"
)

// Handler serves the admin event endpoints.
type Handler struct {
	Events *eventstore.Store
	Users  *userstore.Store
	ErrLog *errorsfeature.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger

	now   func() time.Time
	count countFunc
}

// NewHandler creates a new events handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	es := eventstore.New(db)
	return &Handler{
		Events: es,
		Users:  userstore.New(db),
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
		now:    time.Now,
		count:  es.CountRegistrations,
	}
}

// List handles GET /events: every event, newest date first, with its
// registration count.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to list events", err)
		jsonutil.ServerError(w)
		return
	}

	ids := make([]primitive.ObjectID, len(evs))
	for i, ev := range evs {
		ids[i] = ev.ID
	}
	counts, err := countAll(ctx, ids, h.count)
	if err != nil {
		h.ErrLog.Log(r, "failed to count registrations", err)
		jsonutil.ServerError(w)
		return
	}

	out := make([]listItem, len(evs))
	for i, ev := range evs {
		out[i] = newListItem(ev, counts[i])
	}
	jsonutil.OK(w, out)
}

// Create handles POST /events.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	f, msg := h.readFields(r)
	if msg != "" {
		jsonutil.Message(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.Create(ctx, f, h.now())
	if err != nil {
		h.ErrLog.Log(r, "failed to create event", err)
		jsonutil.ServerError(w)
		return
	}

	h.Audit.EventCreated(ctx, r, authz.Actor(r), ev.ID, ev.Title)
	jsonutil.Created(w, ev)
}

// Update handles PUT /events/{id}. All five fields are replaced and the
// status is derived again from the new date.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Message(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	f, msg := h.readFields(r)
	if msg != "" {
		jsonutil.Message(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.Update(ctx, id, f, h.now())
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.Message(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Log(r, "failed to update event", err)
		jsonutil.ServerError(w)
		return
	}
	if ev.Registrations == nil {
		ev.Registrations = []models.Registration{}
	}

	h.Audit.EventUpdated(ctx, r, authz.Actor(r), ev.ID, ev.Title)
	jsonutil.OK(w, ev)
}

// Delete handles DELETE /events/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Message(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Events.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.Message(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.ErrLog.Log(r, "failed to delete event", err)
		jsonutil.ServerError(w)
		return
	}

	h.Audit.EventDeleted(ctx, r, authz.Actor(r), id)
	jsonutil.Message(w, http.StatusOK, msgDeleted)
}

// All handles GET /events/all: every event with registrant profiles
// expanded.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	evs, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to list events", err)
		jsonutil.Fail(w, http.StatusInternalServerError, msgFetchEvents, err)
		return
	}

	regs, err := populate(ctx, h.Users, evs)
	if err != nil {
		h.ErrLog.Log(r, "failed to load registrants", err)
		jsonutil.Fail(w, http.StatusInternalServerError, msgFetchEvents, err)
		return
	}

	data := make([]populatedEvent, len(evs))
	for i, ev := range evs {
		data[i] = newPopulatedEvent(ev, regs[i])
	}
	jsonutil.Success(w, map[string]any{
		"count": len(data),
		"data":  data,
	})
}

// Registrations handles GET /events/{id}/registrations.
func (h *Handler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Fail(w, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.Fail(w, http.StatusNotFound, msgNotFound, nil)
		return
	}
	if err != nil {
		h.ErrLog.Log(r, "failed to load event", err)
		jsonutil.Fail(w, http.StatusInternalServerError, msgFetchRegs, err)
		return
	}

	regs, err := populate(ctx, h.Users, []models.Event{*ev})
	if err != nil {
		h.ErrLog.Log(r, "failed to load registrants", err)
		jsonutil.Fail(w, http.StatusInternalServerError, msgFetchRegs, err)
		return
	}

	jsonutil.Success(w, map[string]any{
		"count": len(regs[0]),
		"data":  regs[0],
	})
}

// readFields decodes, normalizes and validates an event body. A non-empty
// message means the request is rejected with 400.
func (h *Handler) readFields(r *http.Request) (eventstore.Fields, string) {
	var in eventInput
	if err := jsonutil.Decode(r, &in); err != nil {
		return eventstore.Fields{}, msgInvalidJSON
	}

	in.Title = normalize.Text(in.Title)
	in.Description = htmlsanitize.Description(in.Description)
	in.Time = normalize.Text(in.Time)
	in.Venue = normalize.Text(in.Venue)
	in.Date = strings.TrimSpace(in.Date)

	if res := inputval.Validate(in); res.HasErrors() {
		return eventstore.Fields{}, res.First()
	}

	date, err := inputval.ParseEventDate(in.Date)
	if err != nil {
		return eventstore.Fields{}, msgInvalidEventDt
	}

	return eventstore.Fields{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Time:        in.Time,
		Venue:       in.Venue,
	}, ""
}
