// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the record store and the rate-limit backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.Store {
	case StoreMemory:
		deps.Memory = records.NewMemory()
		deps.Records = deps.Memory
		logger.Warn("using in-memory record store; data will not survive a restart")
	default:
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize))
		if err != nil {
			return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Records = records.NewMongo(deps.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	}

	var ipCounter, userCounter ratelimit.Counter
	switch appCfg.RateLimitBackend {
	case BackendRedis:
		rdb, err := ratelimit.Dial(ctx, appCfg.RedisAddr)
		if err != nil {
			closeMongo(deps, logger)
			return DBDeps{}, err
		}
		deps.Redis = rdb
		ipCounter = ratelimit.NewRedis(rdb, "reliefhub:login:ip:", appCfg.LoginIPRateLimit, appCfg.LoginRateWindow)
		userCounter = ratelimit.NewRedis(rdb, "reliefhub:login:user:", appCfg.LoginRateLimit, appCfg.LoginRateWindow)
		logger.Info("login rate limits backed by redis", zap.String("addr", appCfg.RedisAddr))
	default:
		ipLim := ratelimit.New(appCfg.LoginIPRateLimit, appCfg.LoginRateWindow)
		userLim := ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
		deps.closers = append(deps.closers, ipLim.Close, userLim.Close)
		ipCounter, userCounter = ipLim, userLim
	}
	deps.LoginLimiter = ratelimit.NewLoginLimiter(ipCounter, userCounter, logger)

	return deps, nil
}

// EnsureSchema creates indexes and collection validators. Both are
// idempotent and safe to run on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Memory != nil {
		indexes.EnsureMemory(deps.Memory)
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready")
	return nil
}

func closeMongo(deps DBDeps, logger *zap.Logger) {
	if deps.MongoClient == nil {
		return
	}
	if err := deps.MongoClient.Disconnect(context.Background()); err != nil {
		logger.Warn("MongoDB disconnect failed", zap.Error(err))
	}
}
