// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"time"

	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding login attempt counters.
const CollectionName = "login_attempts"

// Attempt tracks failed logins for one email address.
type Attempt struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	AttemptCount int                `bson:"attempt_count"` // failures in current window
	WindowStart  time.Time          `bson:"window_start"`
	LockedUntil  *time.Time         `bson:"locked_until"`
	LastAttempt  time.Time          `bson:"last_attempt"` // TTL cleanup
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Store manages failed-login counters and lockouts.
type Store struct {
	c               *mongo.Collection
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

// New creates a rate limit Store. After maxAttempts failures inside window
// the email is locked out for lockout.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:               db.Collection(CollectionName),
		maxAttempts:     maxAttempts,
		windowDuration:  window,
		lockoutDuration: lockout,
		now:             time.Now,
	}
}

// CheckAllowed reports whether email may attempt a login.
// Returns:
//   - allowed: true if the attempt should be processed
//   - remaining: attempts left before lockout (-1 if locked)
//   - lockedUntil: when the lockout expires (nil if not locked)
//
// Store errors fail open.
func (s *Store) CheckAllowed(ctx context.Context, email string) (allowed bool, remaining int, lockedUntil *time.Time) {
	attempt, err := s.GetAttempt(ctx, email)
	if err != nil || attempt == nil {
		return true, s.maxAttempts, nil
	}
	now := s.now()

	if attempt.LockedUntil != nil && now.Before(*attempt.LockedUntil) {
		return false, -1, attempt.LockedUntil
	}
	if now.After(attempt.WindowStart.Add(s.windowDuration)) {
		return true, s.maxAttempts, nil
	}

	remaining = s.maxAttempts - attempt.AttemptCount
	if remaining <= 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

// RecordFailure counts a failed login for email and reports whether this
// failure triggered a lockout.
func (s *Store) RecordFailure(ctx context.Context, email string) (lockedOut bool, lockedUntil *time.Time) {
	email = normalize.Email(email)
	now := s.now()

	attempt, err := s.GetAttempt(ctx, email)
	if err != nil {
		return false, nil
	}

	if attempt == nil || now.After(attempt.WindowStart.Add(s.windowDuration)) {
		attempt = &Attempt{Email: email, WindowStart: now, CreatedAt: now}
	}
	attempt.AttemptCount++
	attempt.LastAttempt = now
	attempt.UpdatedAt = now
	attempt.LockedUntil = nil

	if attempt.AttemptCount >= s.maxAttempts {
		until := now.Add(s.lockoutDuration)
		attempt.LockedUntil = &until
		lockedOut, lockedUntil = true, &until
	}

	_, _ = s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{
				"attempt_count": attempt.AttemptCount,
				"window_start":  attempt.WindowStart,
				"locked_until":  attempt.LockedUntil,
				"last_attempt":  attempt.LastAttempt,
				"updated_at":    attempt.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": attempt.CreatedAt},
		},
		options.Update().SetUpsert(true),
	)

	return lockedOut, lockedUntil
}

// ClearOnSuccess removes the counter for email after a successful login.
func (s *Store) ClearOnSuccess(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	return err
}

// GetAttempt returns the counter for email, or nil if there is none.
func (s *Store) GetAttempt(ctx context.Context, email string) (*Attempt, error) {
	var attempt Attempt
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
