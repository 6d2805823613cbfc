// internal/app/features/events/populate.go
package eventsfeature

import (
	"context"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// registrantSource loads the whitelisted profiles of registered users.
type registrantSource interface {
	GetRegistrants(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.RegistrantProfile, error)
}

// populate expands the user reference of every registration in events with
// a single lookup. The result is parallel to events, and each inner slice is
// parallel to that event's registrations (never nil).
func populate(ctx context.Context, src registrantSource, events []models.Event) ([][]populatedRegistration, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, ev := range events {
		for _, reg := range ev.Registrations {
			if _, ok := seen[reg.User]; ok {
				continue
			}
			seen[reg.User] = struct{}{}
			ids = append(ids, reg.User)
		}
	}

	profiles, err := src.GetRegistrants(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([][]populatedRegistration, len(events))
	for i, ev := range events {
		regs := make([]populatedRegistration, 0, len(ev.Registrations))
		for _, reg := range ev.Registrations {
			pr := populatedRegistration{RegisteredAt: reg.RegisteredAt}
			if p, ok := profiles[reg.User]; ok {
				pr.User = &p
			}
			regs = append(regs, pr)
		}
		out[i] = regs
	}
	return out, nil
}
