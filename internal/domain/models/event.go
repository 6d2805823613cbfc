// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event status values. Status is derived from Date when the event is
// written and is not recomputed on read.
const (
	EventStatusUpcoming = "upcoming"
	EventStatusPast     = "past"
)

// Event is a club event that members register for.
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Date          time.Time          `bson:"date" json:"date"`
	Time          string             `bson:"time" json:"time"` // display time, e.g. "18:30"
	Venue         string             `bson:"venue" json:"venue"`
	Status        string             `bson:"status" json:"status"`
	Registrations []Registration     `bson:"registrations" json:"registrations"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Registration references the user who registered for an event.
type Registration struct {
	User         primitive.ObjectID `bson:"user" json:"user"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
}

// EventStatusAt returns the status an event dated date has at instant now.
// An event is upcoming only when its date is strictly after now.
func EventStatusAt(date, now time.Time) string {
	if date.After(now) {
		return EventStatusUpcoming
	}
	return EventStatusPast
}
