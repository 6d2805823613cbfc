// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding events.
const CollectionName = "events"

// byDateDesc is the listing order for every admin event listing.
var byDateDesc = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

// Fields are the admin-editable fields of an event. Create and Update both
// take the full set; Update overwrites every one of them.
type Fields struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Venue       string
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// List returns every event, newest date first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(byDateDesc))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID loads one event. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event with no registrations. Status is derived from
// f.Date at instant now.
func (s *Store) Create(ctx context.Context, f Fields, now time.Time) (models.Event, error) {
	ev := models.Event{
		ID:            primitive.NewObjectID(),
		Title:         f.Title,
		Description:   f.Description,
		Date:          f.Date,
		Time:          f.Time,
		Venue:         f.Venue,
		Status:        models.EventStatusAt(f.Date, now),
		Registrations: []models.Registration{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Update overwrites the editable fields of an event, re-derives its status
// at instant now and returns the updated document. Registrations are left
// alone. Returns mongo.ErrNoDocuments if no event has the given id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f Fields, now time.Time) (*models.Event, error) {
	set := bson.M{
		"title":       f.Title,
		"description": f.Description,
		"date":        f.Date,
		"time":        f.Time,
		"venue":       f.Venue,
		"status":      models.EventStatusAt(f.Date, now),
		"updated_at":  now,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ev models.Event
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Delete removes an event. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountRegistrations returns the number of registrations on one event,
// computed server-side. Returns mongo.ErrNoDocuments if the event is absent.
func (s *Store) CountRegistrations(ctx context.Context, id primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$project", Value: bson.M{
			"n": bson.M{"$size": bson.M{"$ifNull": bson.A{"$registrations", bson.A{}}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, err
		}
		return 0, mongo.ErrNoDocuments
	}
	var row struct {
		N int64 `bson:"n"`
	}
	if err := cur.Decode(&row); err != nil {
		return 0, err
	}
	return row.N, nil
}

// Count returns the total number of events.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountUpcoming returns the number of events dated strictly after now,
// whatever their stored status says.
func (s *Store) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"date": bson.M{"$gt": now}})
}

// AddRegistration appends a registration for userID. It exists for tests and
// seeding; member self-registration is served elsewhere.
func (s *Store) AddRegistration(ctx context.Context, id, userID primitive.ObjectID, at time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"registrations": models.Registration{User: userID, RegisteredAt: at}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
