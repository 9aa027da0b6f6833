// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountfeature "github.com/dalemusser/reliefhub/internal/app/features/account"
	auditfeature "github.com/dalemusser/reliefhub/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/reliefhub/internal/app/features/dashboard"
	entitiesfeature "github.com/dalemusser/reliefhub/internal/app/features/entities"
	errorsfeature "github.com/dalemusser/reliefhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/reliefhub/internal/app/features/health"
	homefeature "github.com/dalemusser/reliefhub/internal/app/features/home"
	logoutfeature "github.com/dalemusser/reliefhub/internal/app/features/logout"
	metricsfeature "github.com/dalemusser/reliefhub/internal/app/features/metrics"
	"github.com/dalemusser/reliefhub/internal/app/store/audit"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/auditlog"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/metrics"
	"github.com/dalemusser/reliefhub/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ReliefHub boots the template engine,
// applies request-id, metrics, CSRF and session middleware, and mounts the
// feature routers: home, account, dashboard, the five record types and
// the admin audit log.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.Records, appCfg.PasswordScheme, logger)

	// LoadSessionUser re-reads the credential on each request so role
	// changes and deletions take effect immediately.
	sessionMgr.SetUserFetcher(users)

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	events := audit.New(deps.Records)
	auditLog := auditlog.New(events, logger, auditlog.Config{
		Auth:  appCfg.AuditAuth,
		Admin: appCfg.AuditAdmin,
	})
	users.OnHashUpgrade(auditLog.PasswordHashUpgraded)

	var m *metrics.Metrics
	if appCfg.EnableMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg, reg)
	}

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	r.Use(requestid.Middleware)
	r.Use(m.Middleware)
	if !secure {
		// gorilla/csrf assumes TLS unless told otherwise.
		r.Use(markPlaintext)
	}
	r.Use(csrf.Protect(
		[]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
	))
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(sessionMgr.LoadFlashes)

	// Health check endpoint for load balancers and orchestrators.
	var pinger healthfeature.Pinger
	if deps.MongoClient != nil {
		pinger = deps.MongoClient
	}
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger, logger)))

	if m != nil {
		r.Mount("/metrics", metricsfeature.Routes(m))
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Mount("/", homefeature.Routes(homefeature.NewHandler(logger)))

	// Authentication
	accountHandler := accountfeature.NewHandler(users, sessionMgr, deps.LoginLimiter, auditLog, m, errLog, logger)
	r.Mount("/login", accountfeature.LoginRoutes(accountHandler))
	r.Mount("/register", accountfeature.RegisterRoutes(accountHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	dashboardHandler := dashboardfeature.NewHandler(deps.Records, m, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Reports, donations, volunteers, tasks, assignments
	entitiesfeature.Mount(r, sessionMgr, entitiesfeature.Deps{
		Records: deps.Records,
		Audit:   auditLog,
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	})

	auditHandler := auditfeature.NewHandler(events, users, errLog, logger)
	r.Mount("/audit", auditfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
