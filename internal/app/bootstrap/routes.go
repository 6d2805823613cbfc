// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/strataevents/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/strataevents/internal/app/features/events"
	healthfeature "github.com/dalemusser/strataevents/internal/app/features/health"
	loginfeature "github.com/dalemusser/strataevents/internal/app/features/login"
	statsfeature "github.com/dalemusser/strataevents/internal/app/features/stats"
	usersfeature "github.com/dalemusser/strataevents/internal/app/features/users"
	"github.com/dalemusser/strataevents/internal/app/store/audit"
	"github.com/dalemusser/strataevents/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/strataevents/internal/app/store/users"
	"github.com/dalemusser/strataevents/internal/app/system/auditlog"
	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"github.com/dalemusser/strataevents/internal/app/system/metrics"
	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The router carries:
//   - /health, /ready, /readyz, /livez: MongoDB-backed health checks
//   - /metrics: Prometheus metrics (when metrics_enabled)
//   - /api/auth: token login and the current-user endpoint
//   - /api/admin: event, user and statistics endpoints behind a bearer
//     token and the admin role check
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Request ids flow into error logs. Stores apply shorter timeouts than
	// the outer bound.
	r.Use(chimw.RequestID)
	if appCfg.MetricsEnabled {
		r.Use(metrics.HTTPMiddleware)
	}
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS policy and security headers come from WAFFLE core config.
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	if err := mountRoutes(r, appCfg, deps, logger); err != nil {
		return nil, err
	}
	return r, nil
}

// mountRoutes attaches every feature router to r.
func mountRoutes(r chi.Router, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return errors.New("bootstrap: MongoDB database is not connected")
	}
	db := deps.MongoDatabase

	tokens := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, appCfg.JWTIssuer)

	// protect loads a fresh user on every request so role changes apply
	// to existing tokens immediately.
	protect := auth.Protect(tokens, userstore.NewFetcher(db, logger), logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			db,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	if appCfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// Health checks (unauthenticated)
	if deps.MongoClient != nil {
		healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
		r.Mount("/health", healthfeature.Routes(healthHandler))
		healthfeature.MountRootEndpoints(r, healthHandler)
	}

	loginHandler := loginfeature.NewHandler(db, tokens, errLog, auditLogger, rateLimitStore, logger)
	r.Mount("/api/auth", loginfeature.Routes(loginHandler, protect))

	eventsHandler := eventsfeature.NewHandler(db, errLog, auditLogger, logger)
	usersHandler := usersfeature.NewHandler(db, errLog, auditLogger, logger)
	statsHandler := statsfeature.NewHandler(db, errLog, logger)

	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(protect)
		ar.Use(auth.RequireRole(models.AdminRoles()...))

		ar.Mount("/events", eventsfeature.Routes(eventsHandler))
		ar.Mount("/users", usersfeature.Routes(usersHandler))
		ar.Mount("/stats", statsfeature.Routes(statsHandler))
	})

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	return nil
}
