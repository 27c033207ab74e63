// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/strataassign/internal/app/collab/catalogcache"
	"github.com/dalemusser/strataassign/internal/app/system/indexes"
	"github.com/dalemusser/strataassign/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and, when redis_addr is set, Redis.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		deps.Redis, deps.RedisHealth = connectRedis(ctx, appCfg.RedisAddr, logger)
	}
	return deps, nil
}

// connectRedis returns the cache client (nil when Redis did not answer)
// and the client /health keeps pinging.
func connectRedis(ctx context.Context, addr string, logger *zap.Logger) (cache, health *goredis.Client) {
	rdb := catalogcache.NewClient(addr)
	if err := catalogcache.Ping(ctx, rdb); err != nil {
		// The cache is optional; catalog reads go straight to the source.
		logger.Warn("redis unavailable, catalog cache disabled",
			zap.String("addr", addr), zap.Error(err))
		return nil, rdb
	}
	logger.Info("connected to Redis", zap.String("addr", addr))
	return rdb, rdb
}

// EnsureSchema creates the indexes for the catalog and assignment
// collections.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Schema())
	defer cancel()
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
