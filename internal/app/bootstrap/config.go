// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/authutil"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	BackendMemory = "memory"
	BackendRedis  = "redis"

	minProdSessionKey = 32
	csrfKeyLen        = 32
)

// appConfigKeys defines the configuration keys for ReliefHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: RELIEFHUB_MONGO_URI, RELIEFHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store", Default: StoreMongo, Desc: "Record store: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "reliefhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (at least 32 chars in prod)"},
	{Name: "session_name", Default: "reliefhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789abcd", Desc: "CSRF token key (exactly 32 bytes)"},

	{Name: "password_scheme", Default: authutil.SchemeLegacy, Desc: "Password storage: 'legacy' or 'bcrypt'"},

	{Name: "login_rate_limit", Default: 10, Desc: "Sign-in attempts per username per window"},
	{Name: "login_ip_rate_limit", Default: 50, Desc: "Sign-in attempts per client IP per window"},
	{Name: "login_rate_window", Default: "15m", Desc: "Sign-in rate-limit window"},
	{Name: "ratelimit_backend", Default: BackendMemory, Desc: "Rate-limit counters: 'memory' or 'redis'"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address for ratelimit_backend=redis"},

	{Name: "audit_auth", Default: auditlog.All, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_admin", Default: auditlog.All, Desc: "Record change logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "enable_metrics", Default: true, Desc: "Serve prometheus metrics at /metrics"},
	{Name: "site_name", Default: "ReliefHub", Desc: "Site name shown in page headers"},

	{Name: "timeout_ping", Default: timeouts.DefaultPing.String(), Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Single-record store timeout"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "List, count, and write timeout"},

	{Name: "admin_username", Default: "", Desc: "Username created or promoted to Admin on startup"},
	{Name: "admin_password", Default: "", Desc: "Password for admin_username when it must be created"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, RELIEFHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RELIEFHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		Store:            appValues.String("store"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		PasswordScheme: appValues.String("password_scheme"),

		LoginRateLimit:   appValues.Int("login_rate_limit"),
		LoginIPRateLimit: appValues.Int("login_ip_rate_limit"),
		LoginRateWindow:  appValues.Duration("login_rate_window", 15*time.Minute),
		RateLimitBackend: appValues.String("ratelimit_backend"),
		RedisAddr:        appValues.String("redis_addr"),

		AuditAuth:  appValues.String("audit_auth"),
		AuditAdmin: appValues.String("audit_admin"),

		EnableMetrics: appValues.Bool("enable_metrics"),
		SiteName:      appValues.String("site_name"),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),

		AdminUsername: appValues.String("admin_username"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems are caught here, before any backend is dialled.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.Store {
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must be set")
		}
	case StoreMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			logger.Warn("in-memory store in prod: records are lost on restart")
		}
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", appCfg.Store, StoreMongo, StoreMemory)
	}

	if !authutil.ValidScheme(appCfg.PasswordScheme) {
		return fmt.Errorf("unknown password_scheme %q (want %q or %q)",
			appCfg.PasswordScheme, authutil.SchemeLegacy, authutil.SchemeBcrypt)
	}

	switch appCfg.RateLimitBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown ratelimit_backend %q (want %q or %q)",
			appCfg.RateLimitBackend, BackendMemory, BackendRedis)
	}
	if appCfg.LoginRateLimit < 1 || appCfg.LoginIPRateLimit < 1 {
		return fmt.Errorf("login rate limits must be positive")
	}
	if appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login_rate_window must be positive")
	}

	for name, v := range map[string]string{"audit_auth": appCfg.AuditAuth, "audit_admin": appCfg.AuditAdmin} {
		if !auditlog.Valid(v) {
			return fmt.Errorf("unknown %s %q (want all, db, log, or off)", name, v)
		}
	}

	if len(appCfg.CSRFKey) != csrfKeyLen {
		return fmt.Errorf("csrf_key must be exactly %d bytes, got %d", csrfKeyLen, len(appCfg.CSRFKey))
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		return fmt.Errorf("session_key must be at least %d characters in prod", minProdSessionKey)
	}
	if appCfg.PasswordScheme == authutil.SchemeBcrypt && len(appCfg.AdminPassword) > authutil.MaxBcryptPassword {
		return fmt.Errorf("admin_password must be at most %d bytes with password_scheme=bcrypt", authutil.MaxBcryptPassword)
	}
	if appCfg.AdminUsername != "" && appCfg.AdminPassword == "" {
		logger.Info("admin_username set without admin_password: an existing account will be promoted, none created")
	}

	return nil
}
