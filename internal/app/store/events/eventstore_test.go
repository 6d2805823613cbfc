package eventstore

import (
	"testing"
	"time"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/dalemusser/strataevents/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fields(title string, date time.Time) Fields {
	return Fields{
		Title:       title,
		Description: "desc " + title,
		Date:        date,
		Time:        "18:00",
		Venue:       "Main Hall",
	}
}

func TestStore_Create_DerivesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"future", fixedNow.Add(48 * time.Hour), models.EventStatusUpcoming},
		{"past", fixedNow.Add(-48 * time.Hour), models.EventStatusPast},
		{"boundary", fixedNow, models.EventStatusPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := store.Create(ctx, fields(tt.name, tt.date), fixedNow)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if ev.Status != tt.want {
				t.Errorf("Status = %q, want %q", ev.Status, tt.want)
			}
			if ev.Registrations == nil || len(ev.Registrations) != 0 {
				t.Errorf("Registrations = %v, want empty", ev.Registrations)
			}

			got, err := store.GetByID(ctx, ev.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.Status != tt.want || got.Title != tt.name {
				t.Errorf("stored = %+v", got)
			}
		})
	}
}

func TestStore_List_SortedByDateDesc(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty = %v, want empty non-nil", empty)
	}

	for i, d := range []int{3, 1, 2} {
		date := fixedNow.AddDate(0, 0, d)
		if _, err := store.Create(ctx, fields(string(rune('a'+i)), date), fixedNow); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.After(events[i-1].Date) {
			t.Errorf("events not sorted by date desc at %d", i)
		}
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev, err := store.Create(ctx, fields("Hackathon", fixedNow.Add(time.Hour)), fixedNow)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	userID := primitive.NewObjectID()
	if err := store.AddRegistration(ctx, ev.ID, userID, fixedNow); err != nil {
		t.Fatalf("AddRegistration() error = %v", err)
	}

	later := fixedNow.Add(2 * time.Hour)
	upd := fields("Hackathon 2", fixedNow.Add(time.Hour))
	upd.Venue = "Lab 3"

	got, err := store.Update(ctx, ev.ID, upd, later)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Title != "Hackathon 2" || got.Venue != "Lab 3" {
		t.Errorf("Update() = %+v", got)
	}
	// Same date, later clock: the status is re-derived.
	if got.Status != models.EventStatusPast {
		t.Errorf("Status = %q, want past", got.Status)
	}
	if len(got.Registrations) != 1 || got.Registrations[0].User != userID {
		t.Errorf("Registrations = %+v, want preserved", got.Registrations)
	}

	_, err = store.Update(ctx, primitive.NewObjectID(), upd, later)
	if err != mongo.ErrNoDocuments {
		t.Errorf("Update(missing) error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	keep, _ := store.Create(ctx, fields("keep", fixedNow), fixedNow)
	drop, _ := store.Create(ctx, fields("drop", fixedNow), fixedNow)

	if err := store.Delete(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("Delete(missing) error = %v, want mongo.ErrNoDocuments", err)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("Count() after missing delete = %d, want 2", n)
	}

	if err := store.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetByID(ctx, drop.ID); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID(deleted) error = %v", err)
	}
	if _, err := store.GetByID(ctx, keep.ID); err != nil {
		t.Errorf("GetByID(kept) error = %v", err)
	}
}

func TestStore_CountRegistrations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev, _ := store.Create(ctx, fields("Talk", fixedNow), fixedNow)

	n, err := store.CountRegistrations(ctx, ev.ID)
	if err != nil || n != 0 {
		t.Errorf("CountRegistrations() = %d, %v; want 0, nil", n, err)
	}

	for i := 0; i < 3; i++ {
		if err := store.AddRegistration(ctx, ev.ID, primitive.NewObjectID(), fixedNow); err != nil {
			t.Fatalf("AddRegistration() error = %v", err)
		}
	}
	n, err = store.CountRegistrations(ctx, ev.ID)
	if err != nil || n != 3 {
		t.Errorf("CountRegistrations() = %d, %v; want 3, nil", n, err)
	}

	// Legacy documents without a registrations field count as zero.
	legacy := primitive.NewObjectID()
	_, err = db.Collection(CollectionName).InsertOne(ctx, bson.M{
		"_id": legacy, "title": "Old", "date": fixedNow, "status": models.EventStatusPast,
	})
	if err != nil {
		t.Fatalf("insert legacy: %v", err)
	}
	if n, err := store.CountRegistrations(ctx, legacy); err != nil || n != 0 {
		t.Errorf("CountRegistrations(legacy) = %d, %v; want 0, nil", n, err)
	}

	if _, err := store.CountRegistrations(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("CountRegistrations(missing) error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_CountUpcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Created long ago: stored status says upcoming for all three.
	created := fixedNow.AddDate(-1, 0, 0)
	for _, d := range []time.Time{fixedNow.Add(-time.Hour), fixedNow, fixedNow.Add(time.Hour)} {
		if _, err := store.Create(ctx, fields("e", d), created); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	total, err := store.Count(ctx)
	if err != nil || total != 3 {
		t.Errorf("Count() = %d, %v; want 3", total, err)
	}
	up, err := store.CountUpcoming(ctx, fixedNow)
	if err != nil || up != 1 {
		t.Errorf("CountUpcoming() = %d, %v; want 1", up, err)
	}
}

func TestStore_AddRegistration_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.AddRegistration(ctx, primitive.NewObjectID(), primitive.NewObjectID(), fixedNow)
	if err != mongo.ErrNoDocuments {
		t.Errorf("AddRegistration(missing) error = %v, want mongo.ErrNoDocuments", err)
	}
}
