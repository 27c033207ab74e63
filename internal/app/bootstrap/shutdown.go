// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the idle sweep, closes open wizards and tears down the
// Redis and MongoDB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc != nil {
		svc.sweep.Stop()
		if svc.openLimit != nil {
			svc.openLimit.Stop()
		}
		logger.Info("closing open wizards", zap.Int("count", svc.wizards.Len()))
		svc.wizards.CloseAll()
	}
	if deps.RedisHealth != nil {
		if err := deps.RedisHealth.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
