// internal/app/features/events/types.go
package eventsfeature

import (
	"time"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventInput is the request body of POST /events and PUT /events/{id}.
// Every field is written on update; omitted optional fields become empty.
type eventInput struct {
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Description string `json:"description" validate:"max=5000" label:"Description"`
	Date        string `json:"date" validate:"required,eventdate" label:"Date"`
	Time        string `json:"time" validate:"max=50" label:"Time"`
	Venue       string `json:"venue" validate:"max=200" label:"Venue"`
}

// listItem is one element of GET /events: the event with its registrations
// replaced by their count.
type listItem struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Date          time.Time          `json:"date"`
	Time          string             `json:"time"`
	Venue         string             `json:"venue"`
	Status        string             `json:"status"`
	Registrations int64              `json:"registrations"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// populatedRegistration is a registration with its user reference expanded.
// User is nil when the referenced account no longer exists.
type populatedRegistration struct {
	User         *models.RegistrantProfile `json:"user"`
	RegisteredAt time.Time                 `json:"registered_at"`
}

// populatedEvent is one element of GET /events/all.
type populatedEvent struct {
	ID                primitive.ObjectID      `json:"id"`
	Title             string                  `json:"title"`
	Description       string                  `json:"description"`
	Date              time.Time               `json:"date"`
	Time              string                  `json:"time"`
	Venue             string                  `json:"venue"`
	Status            string                  `json:"status"`
	Registrations     []populatedRegistration `json:"registrations"`
	RegistrationCount int                     `json:"registrationCount"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func newListItem(ev models.Event, count int64) listItem {
	return listItem{
		ID:            ev.ID,
		Title:         ev.Title,
		Description:   ev.Description,
		Date:          ev.Date,
		Time:          ev.Time,
		Venue:         ev.Venue,
		Status:        ev.Status,
		Registrations: count,
		CreatedAt:     ev.CreatedAt,
		UpdatedAt:     ev.UpdatedAt,
	}
}

func newPopulatedEvent(ev models.Event, regs []populatedRegistration) populatedEvent {
	return populatedEvent{
		ID:                ev.ID,
		Title:             ev.Title,
		Description:       ev.Description,
		Date:              ev.Date,
		Time:              ev.Time,
		Venue:             ev.Venue,
		Status:            ev.Status,
		Registrations:     regs,
		RegistrationCount: len(regs),
		CreatedAt:         ev.CreatedAt,
		UpdatedAt:         ev.UpdatedAt,
	}
}
