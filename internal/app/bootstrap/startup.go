// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/strataevents/internal/app/system/seeding"
	"github.com/dalemusser/strataevents/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete, but
// before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("configured database timeouts from environment", zap.Int("overrides", n))
	}

	seed := seeding.AdminSeed{
		Email:    appCfg.SeedAdminEmail,
		Name:     appCfg.SeedAdminName,
		Password: appCfg.SeedAdminPassword,
	}
	if err := seeding.SeedAll(ctx, deps.MongoDatabase, seed, logger); err != nil {
		logger.Error("failed to seed default data", zap.Error(err))
		return fmt.Errorf("seed: %w", err)
	}

	return nil
}
