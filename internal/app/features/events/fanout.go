// internal/app/features/events/fanout.go
package eventsfeature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strataevents/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentCounts bounds the per-event count queries in flight for one
// request.
const maxConcurrentCounts = 8

type countFunc func(ctx context.Context, id primitive.ObjectID) (int64, error)

// countAll runs count for every id concurrently and returns the results in
// id order. The first failure cancels the remaining counts and is returned;
// no partial results are returned. An event deleted mid-request counts as 0.
func countAll(ctx context.Context, ids []primitive.ObjectID, count countFunc) (_ []int64, err error) {
	defer func(start time.Time) { metrics.ObserveCountBatch(start, err) }(time.Now())

	out := make([]int64, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)

	for i, id := range ids {
		g.Go(func() error {
			n, err := count(gctx, id)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("count registrations for event %s: %w", id.Hex(), err)
			}
			out[i] = n
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
