// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/authutil"
	"github.com/dalemusser/strataevents/internal/app/system/normalize"
	"github.com/dalemusser/strataevents/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminSeed describes the bootstrap superadmin account. An empty Email
// disables seeding.
type AdminSeed struct {
	Email    string
	Name     string
	Password string
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, admin AdminSeed, logger *zap.Logger) error {
	if err := seedAdmin(ctx, db, admin, logger); err != nil {
		return err
	}
	return nil
}

// seedAdmin creates the superadmin account, or promotes an existing account
// with the same email. An existing password is never overwritten.
func seedAdmin(ctx context.Context, db *mongo.Database, admin AdminSeed, logger *zap.Logger) error {
	email := normalize.Email(admin.Email)
	if email == "" {
		return nil
	}
	store := userstore.New(db)

	existing, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleSuperAdmin {
			return nil
		}
		if _, err := store.UpdateRole(ctx, existing.ID, models.RoleSuperAdmin); err != nil {
			logger.Error("failed to promote seed admin", zap.String("email", email), zap.Error(err))
			return err
		}
		logger.Info("promoted seed admin", zap.String("email", email))
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		logger.Error("failed to look up seed admin", zap.String("email", email), zap.Error(err))
		return err
	}

	if err := authutil.ValidatePassword(admin.Password); err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}
	hash, err := authutil.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	name := normalize.Name(admin.Name)
	if name == "" {
		name = "Administrator"
	}

	u, err := store.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Role:     models.RoleSuperAdmin,
		Password: hash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Another instance seeded it first.
		return nil
	}
	if err != nil {
		logger.Error("failed to seed admin", zap.String("email", email), zap.Error(err))
		return err
	}
	logger.Info("seeded admin account", zap.String("email", email), zap.String("user_id", u.ID.Hex()))
	return nil
}
