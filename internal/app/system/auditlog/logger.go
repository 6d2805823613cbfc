// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/strataevents/internal/app/store/audit"
	"github.com/dalemusser/strataevents/internal/app/system/metrics"
	"github.com/dalemusser/strataevents/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of audit events.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login events.
	Auth string
	// Admin controls logging for admin mutations (events, roles).
	Admin string
}

// Recorder is the persistence side of the audit log.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to MongoDB and/or zap according to Config.
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.EventID != nil {
		fields = append(fields, zap.String("event_id", event.EventID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	metrics.RecordAudit(event.Category, event.EventType, event.Success)

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = DestAll
	}

	if setting == DestOff {
		return
	}
	if setting == DestAll || setting == DestLog {
		l.logToZap(event)
	}
	if setting == DestAll || setting == DestDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a failed login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false)
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": email}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false)
	e.UserID = &userID
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginLockedOut logs a login refused because the email is locked out.
func (l *Logger) LoginLockedOut(ctx context.Context, r *http.Request, email string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginLockedOut, false)
	e.FailureReason = "too many failed attempts"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// --- Admin Events ---

// EventCreated logs when an admin creates an event.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, eventID primitive.ObjectID, title string) {
	e := base(r, audit.CategoryAdmin, audit.EventEventCreated, true)
	e.ActorID = actorID
	e.EventID = &eventID
	e.Details = map[string]string{"title": title}
	l.Log(ctx, e)
}

// EventUpdated logs when an admin updates an event.
func (l *Logger) EventUpdated(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, eventID primitive.ObjectID, title string) {
	e := base(r, audit.CategoryAdmin, audit.EventEventUpdated, true)
	e.ActorID = actorID
	e.EventID = &eventID
	e.Details = map[string]string{"title": title}
	l.Log(ctx, e)
}

// EventDeleted logs when an admin deletes an event.
func (l *Logger) EventDeleted(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, eventID primitive.ObjectID) {
	e := base(r, audit.CategoryAdmin, audit.EventEventDeleted, true)
	e.ActorID = actorID
	e.EventID = &eventID
	l.Log(ctx, e)
}

// UserRoleChanged logs when an admin changes a user's role.
func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, targetUserID primitive.ObjectID, role string) {
	e := base(r, audit.CategoryAdmin, audit.EventUserRoleChanged, true)
	e.ActorID = actorID
	e.UserID = &targetUserID
	e.Details = map[string]string{"role": role}
	l.Log(ctx, e)
}
