// Package validators attaches JSON-Schema validators to the collections the
// service writes to, creating the collections on first run.
package validators

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes that mean "this deployment cannot do validators".
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

type collectionSchema struct {
	name   string
	schema bson.M // nil: create only
}

func schemas() []collectionSchema {
	return []collectionSchema{
		{"users", usersSchema()},
		{"events", eventsSchema()},
		{"audit_logs", nil},
		{"login_attempts", nil},
	}
}

// EnsureAll is idempotent. Deployments without collMod support (some
// DocumentDB versions) get the collections but no validators.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	var errs []error
	for _, cs := range schemas() {
		if err := ensure(ctx, db, cs, slices.Contains(existing, cs.name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cs.name, err))
		}
	}
	return errors.Join(errs...)
}

func ensure(ctx context.Context, db *mongo.Database, cs collectionSchema, exists bool) error {
	log := zap.L().With(zap.String("collection", cs.name))

	if !exists {
		if err := db.CreateCollection(ctx, cs.name); err != nil && !hasCode(err, codeNamespaceExists) {
			return err
		}
		log.Info("created collection")
	}
	if cs.schema == nil {
		return nil
	}

	cmd := bson.D{
		{Key: "collMod", Value: cs.name},
		{Key: "validator", Value: cs.schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		if unsupported(err) {
			log.Info("validator skipped; not supported by server")
			return nil
		}
		return err
	}
	log.Info("validator applied")
	return nil
}

func hasCode(err error, code int) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.HasErrorCode(code)
}

func unsupported(err error) bool {
	return hasCode(err, codeCommandNotFound) || hasCode(err, codeNotImplemented)
}

func enum(values ...string) bson.A {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return a
}

func usersSchema() bson.M {
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"name", "email", "role"},
		"properties": bson.M{
			"name":            bson.M{"bsonType": "string", "minLength": 1, "pattern": `.*\S.*`},
			"email":           bson.M{"bsonType": "string", "minLength": 3},
			"registration_no": bson.M{"bsonType": bson.A{"string", "null"}},
			"password":        bson.M{"bsonType": bson.A{"string", "null"}},
			"role":            bson.M{"enum": enum(models.AllRoles()...)},
		},
	}}
}

func eventsSchema() bson.M {
	registration := bson.M{
		"bsonType": "object",
		"required": bson.A{"user"},
		"properties": bson.M{
			"user":          bson.M{"bsonType": "objectId"},
			"registered_at": bson.M{"bsonType": "date"},
		},
	}
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"title", "date", "status"},
		"properties": bson.M{
			"title":         bson.M{"bsonType": "string", "minLength": 1},
			"date":          bson.M{"bsonType": "date"},
			"status":        bson.M{"enum": enum(models.EventStatusUpcoming, models.EventStatusPast)},
			"registrations": bson.M{"bsonType": "array", "items": registration},
		},
	}}
}
