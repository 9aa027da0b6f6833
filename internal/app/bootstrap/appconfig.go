// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (RELIEFHUB_*), configuration
// files, or command-line flags, loaded in LoadConfig. Framework-level
// settings (ports, TLS, log level) live in WAFFLE's CoreConfig instead.
type AppConfig struct {
	// Record store: "mongo" or "memory".
	Store string

	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: reliefhub-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	CSRFKey string // 32 bytes

	// Password storage: "legacy" (SHA-256/base64) or "bcrypt".
	PasswordScheme string

	// Login throttling
	LoginRateLimit   int // attempts per username per window
	LoginIPRateLimit int // attempts per client IP per window
	LoginRateWindow  time.Duration
	RateLimitBackend string // "memory" or "redis"
	RedisAddr        string

	// Audit logging: "all", "db", "log", or "off".
	AuditAuth  string
	AuditAdmin string

	EnableMetrics bool
	SiteName      string

	// Store timeouts; zero keeps the package defaults.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Optional first administrator, created or promoted at startup.
	AdminUsername string
	AdminPassword string
}
