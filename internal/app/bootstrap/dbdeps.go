// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Records is the store every feature reads and writes through.
	Records records.Store

	// Set in memory mode only.
	Memory *records.Memory

	// Set in mongo mode only.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is set when ratelimit_backend is "redis".
	Redis *redis.Client

	LoginLimiter *ratelimit.LoginLimiter

	// closers release in-process resources (limiter sweepers) at shutdown.
	closers []func()
}
