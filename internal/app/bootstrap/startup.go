// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/resources"
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	viewdata.SetSiteName(appCfg.SiteName)
	resources.LoadSharedTemplates()

	if appCfg.AdminUsername != "" {
		users := userstore.New(deps.Records, appCfg.PasswordScheme, logger)
		if err := ensureAdmin(ctx, users, appCfg.AdminUsername, appCfg.AdminPassword, logger); err != nil {
			logger.Error("failed to ensure admin", zap.Error(err))
			return err
		}
	}
	return nil
}

// ensureAdmin promotes username to Admin, registering it first when it does
// not exist and a password is available. Registration only ever grants the
// User role, so this is how the first administrator comes to be.
func ensureAdmin(ctx context.Context, users *userstore.Store, username, password string, logger *zap.Logger) error {
	cred, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, records.ErrNotFound):
		if password == "" {
			logger.Warn("admin account not found and no admin_password set; skipping",
				zap.String("username", username))
			return nil
		}
		id, err := users.Register(ctx, username, password)
		if err != nil {
			return fmt.Errorf("register admin: %w", err)
		}
		logger.Info("created admin account", zap.String("username", username))
		cred.ID = id
	default:
		return fmt.Errorf("lookup admin: %w", err)
	}

	if cred.Role == models.RoleAdmin {
		return nil
	}
	if err := users.SetRole(ctx, cred.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	logger.Info("granted Admin role", zap.String("username", username))
	return nil
}
