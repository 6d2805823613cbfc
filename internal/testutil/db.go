// Package testutil connects tests to a local MongoDB and hands each test its
// own throwaway database.
package testutil

import (
	"context"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/strataevents/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultURI is used unless STRATAEVENTS_TEST_MONGO_URI is set.
const DefaultURI = "mongodb://localhost:27017"

// dbPrefix plus the longest allowed suffix stays under MongoDB's 63-byte
// database name limit.
const (
	dbPrefix     = "strataevents_test_"
	maxSuffixLen = 63 - len(dbPrefix)
)

var (
	shared     *mongo.Client
	sharedErr  error
	sharedOnce sync.Once

	unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

func testURI() string {
	if v := os.Getenv("STRATAEVENTS_TEST_MONGO_URI"); v != "" {
		return v
	}
	return DefaultURI
}

func sharedClient() (*mongo.Client, error) {
	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		opts := options.Client().
			ApplyURI(testURI()).
			SetMaxPoolSize(100).
			SetServerSelectionTimeout(10 * time.Second)
		shared, sharedErr = mongo.Connect(ctx, opts)
		if sharedErr == nil {
			sharedErr = shared.Ping(ctx, nil)
		}
	})
	return shared, sharedErr
}

// DBName derives a per-test database name so packages can run in parallel.
func DBName(testName string) string {
	suffix := unsafeName.ReplaceAllString(testName, "_")
	if len(suffix) > maxSuffixLen {
		suffix = suffix[:maxSuffixLen]
	}
	return dbPrefix + suffix
}

// SetupTestDB returns an empty database with the production indexes in
// place. JSON-Schema validators are not applied; tests that need them call
// validators.EnsureAll themselves. The database is dropped on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Fatalf("connect to test MongoDB at %s: %v", testURI(), err)
	}
	db := c.Database(DBName(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop %s: %v", db.Name(), err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop %s on cleanup: %v", db.Name(), err)
		}
	})
	return db
}

// TestContext bounds a test's database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
