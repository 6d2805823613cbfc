// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct carries everything specific to the events admin API.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Bearer token configuration
	JWTSecret string        // HS256 signing secret (must be strong in production)
	JWTIssuer string        // iss claim written and required on every token
	JWTExpiry time.Duration // Token lifetime (default: 24h)

	// Rate limiting configuration
	RateLimitEnabled       bool          // Enable rate limiting for login attempts (default: true)
	RateLimitLoginAttempts int           // Max failed login attempts before lockout (default: 5)
	RateLimitLoginWindow   time.Duration // Time window for counting failed attempts (default: 15m)
	RateLimitLoginLockout  time.Duration // Lockout duration after exceeding limit (default: 15m)

	// Audit logging configuration
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogAuth  string // Login events
	AuditLogAdmin string // Event CRUD and role changes

	// Prometheus metrics
	MetricsEnabled bool // Serve GET /metrics and record request metrics (default: true)

	// Admin seeding configuration
	SeedAdminEmail    string // Email of the superadmin to create on startup (if set)
	SeedAdminName     string // Display name of the seeded superadmin
	SeedAdminPassword string // Initial password of the seeded superadmin
}
