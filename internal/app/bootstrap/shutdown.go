// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase, after the HTTP server
// has stopped accepting requests and in-flight requests have drained (or
// the shutdown timeout elapsed).
//
// The context carries the shutdown deadline.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoClient == nil {
		return nil
	}

	logger.Info("disconnecting MongoDB client")
	if err := deps.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("MongoDB disconnect failed", zap.Error(err))
		return err
	}
	return nil
}
