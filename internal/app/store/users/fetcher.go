// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher so that protect resolves the token
// subject to the user's current record on every request.
type Fetcher struct {
	users  *mongo.Collection
	logger *zap.Logger
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users:  db.Collection(CollectionName),
		logger: logger,
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found
// or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.User {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":   1,
		"name":  1,
		"email": 1,
		"role":  1,
	})

	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.logger.Warn("user fetch failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	return &auth.User{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  normalize.Role(u.Role),
	}
}
