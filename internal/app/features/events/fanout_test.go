package eventsfeature

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCountAll_PreservesOrder(t *testing.T) {
	ids := make([]primitive.ObjectID, 20)
	want := make(map[primitive.ObjectID]int64, len(ids))
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		want[ids[i]] = int64(i * 3)
	}

	got, err := countAll(context.Background(), ids, func(_ context.Context, id primitive.ObjectID) (int64, error) {
		return want[id], nil
	})
	if err != nil {
		t.Fatalf("countAll() error = %v", err)
	}
	for i, id := range ids {
		if got[i] != want[id] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[id])
		}
	}
}

func TestCountAll_Empty(t *testing.T) {
	got, err := countAll(context.Background(), nil, func(context.Context, primitive.ObjectID) (int64, error) {
		t.Fatal("count should not be called")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("countAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestCountAll_FirstErrorFailsAll(t *testing.T) {
	boom := errors.New("boom")
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	bad := ids[1]

	got, err := countAll(context.Background(), ids, func(_ context.Context, id primitive.ObjectID) (int64, error) {
		if id == bad {
			return 0, boom
		}
		return 1, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
	if got != nil {
		t.Errorf("got = %v, want nil on failure", got)
	}
}

func TestCountAll_MissingEventCountsZero(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	got, err := countAll(context.Background(), ids, func(_ context.Context, id primitive.ObjectID) (int64, error) {
		if id == ids[0] {
			return 0, mongo.ErrNoDocuments
		}
		return 4, nil
	})
	if err != nil {
		t.Fatalf("countAll() error = %v", err)
	}
	if got[0] != 0 || got[1] != 4 {
		t.Errorf("got = %v, want [0 4]", got)
	}
}

func TestCountAll_BoundedConcurrency(t *testing.T) {
	ids := make([]primitive.ObjectID, 50)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	var inFlight, peak atomic.Int64
	_, err := countAll(context.Background(), ids, func(context.Context, primitive.ObjectID) (int64, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		inFlight.Add(-1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("countAll() error = %v", err)
	}
	if peak.Load() > maxConcurrentCounts {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), maxConcurrentCounts)
	}
}
