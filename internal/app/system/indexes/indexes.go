// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// loginAttemptTTL is how long an idle login_attempts record survives.
const loginAttemptTTL int32 = 24 * 60 * 60

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func keys(pairs ...any) bson.D {
	d := make(bson.D, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		d = append(d, bson.E{Key: pairs[i].(string), Value: pairs[i+1]})
	}
	return d
}

func named(name string) *options.IndexOptions { return options.Index().SetName(name) }

// Catalog lists every index the application relies on, grouped by collection.
func catalog() []collectionIndexes {
	return []collectionIndexes{
		{"users", []mongo.IndexModel{
			{Keys: keys("email", 1), Options: named("uniq_users_email").SetUnique(true)},
			{Keys: keys("created_at", -1, "_id", -1), Options: named("idx_users_created_id")},
			{Keys: keys("registration_no", 1), Options: named("idx_users_regno")},
			{Keys: keys("role", 1), Options: named("idx_users_role")},
		}},
		{"events", []mongo.IndexModel{
			{Keys: keys("date", -1), Options: named("idx_events_date")},
			{Keys: keys("status", 1, "date", 1), Options: named("idx_events_status_date")},
			{Keys: keys("registrations.user", 1), Options: named("idx_events_reg_user")},
		}},
		{"audit_logs", []mongo.IndexModel{
			{Keys: keys("created_at", -1), Options: named("idx_audit_created")},
			{Keys: keys("category", 1, "created_at", -1), Options: named("idx_audit_category_created")},
			{Keys: keys("actor_id", 1, "created_at", -1), Options: named("idx_audit_actor_created")},
		}},
		{"login_attempts", []mongo.IndexModel{
			{Keys: keys("email", 1), Options: named("uniq_login_attempts_email").SetUnique(true)},
			{Keys: keys("last_attempt", 1), Options: named("idx_login_attempts_ttl").SetExpireAfterSeconds(loginAttemptTTL)},
		}},
	}
}

// EnsureAll creates any missing index and rebuilds ones whose uniqueness
// changed. It is safe to call on every startup. Failures are collected per
// collection so a single bad index does not hide the others.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, ci := range catalog() {
		if err := reconcile(ctx, db.Collection(ci.collection), ci.models); err != nil {
			problems = append(problems, ci.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type installed struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

func signature(d bson.D) string {
	var b strings.Builder
	for i, e := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%v", e.Key, e.Value)
	}
	return b.String()
}

func listInstalled(ctx context.Context, coll *mongo.Collection) (map[string]installed, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]installed)
	for cur.Next(ctx) {
		var idx installed
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		out[signature(idx.Key)] = idx
	}
	return out, cur.Err()
}

func reconcile(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	have, err := listInstalled(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		zap.L().Debug("listing indexes failed; assuming none",
			zap.String("collection", coll.Name()), zap.Error(err))
		have = map[string]installed{}
	}

	var errs []string
	for _, m := range models {
		sig := signature(m.Keys.(bson.D))
		name := *m.Options.Name
		unique := m.Options.Unique != nil && *m.Options.Unique
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("index", name),
			zap.String("keys", sig))

		if cur, ok := have[sig]; ok {
			if cur.Unique == unique {
				log.Debug("index present")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, cur.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, cur.Name, err))
				continue
			}
			log.Info("dropped index with stale options", zap.String("old_name", cur.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && mongo.IsDuplicateKeyError(err) {
				errs = append(errs, fmt.Sprintf("%s: duplicate values prevent unique index", name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index create failed", zap.Error(err))
			continue
		}
		log.Info("index created", zap.Bool("unique", unique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
