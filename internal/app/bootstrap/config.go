// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strataevents/internal/app/system/auditlog"
	"github.com/dalemusser/strataevents/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATAEVENTS"

// devJWTSecret is the default signing secret. It is rejected in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: STRATAEVENTS_MONGO_URI, STRATAEVENTS_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strataevents", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 token signing secret (32+ chars, must be strong in production)"},
	{Name: "jwt_issuer", Default: "strataevents", Desc: "Token issuer claim"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Token lifetime (e.g., 24h, 30m)"},

	// Rate limiting configuration
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable rate limiting for login attempts"},
	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "rate_limit_login_lockout", Default: "15m", Desc: "Lockout duration after exceeding limit"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of superadmin user to create on startup"},
	{Name: "seed_admin_name", Default: "Administrator", Desc: "Name of superadmin user to create on startup"},
	{Name: "seed_admin_password", Default: "", Desc: "Initial password of the seeded superadmin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// WAFFLE_* and STRATAEVENTS_* environment variables and command-line flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Bearer tokens
		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),
		JWTExpiry: appValues.Duration("jwt_expiry", 24*time.Hour),

		// Rate limiting
		RateLimitEnabled:       appValues.Bool("rate_limit_enabled"),
		RateLimitLoginAttempts: appValues.Int("rate_limit_login_attempts"),
		RateLimitLoginWindow:   appValues.Duration("rate_limit_login_window", 15*time.Minute),
		RateLimitLoginLockout:  appValues.Duration("rate_limit_login_lockout", 15*time.Minute),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		MetricsEnabled: appValues.Bool("metrics_enabled"),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database is required")
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if auth.IsWeakSecret(appCfg.JWTSecret) {
		if coreCfg.Env == "prod" {
			logger.Error("refusing to start with a weak jwt_secret in production")
			return errors.New("jwt_secret is too weak for production")
		}
		logger.Warn("jwt_secret is weak; set STRATAEVENTS_JWT_SECRET before deploying")
	}
	if appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive, got %s", appCfg.JWTExpiry)
	}

	if appCfg.RateLimitEnabled && appCfg.RateLimitLoginAttempts < 1 {
		return fmt.Errorf("rate_limit_login_attempts must be at least 1, got %d", appCfg.RateLimitLoginAttempts)
	}

	for key, v := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch v {
		case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}

	return nil
}
