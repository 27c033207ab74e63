// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/app/assign/wizard"
	"github.com/dalemusser/strataassign/internal/app/collab/catalogcache"
	"github.com/dalemusser/strataassign/internal/app/collab/restclient"
	assignmentstore "github.com/dalemusser/strataassign/internal/app/store/assignments"
	catalogstore "github.com/dalemusser/strataassign/internal/app/store/catalog"
	"github.com/dalemusser/strataassign/internal/app/system/ratelimit"
	"github.com/dalemusser/strataassign/internal/app/system/timeouts"
	"github.com/dalemusser/strataassign/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services are built once in Startup and used by BuildHandler and Shutdown.
type services struct {
	wizards   *wizard.Manager
	sweep     *workers.WizardSweep
	openLimit *ratelimit.Limiter // nil when wizard_open_limit is 0
}

var svc *services

// Startup runs after DB connections and schema setup, before the HTTP
// handler is built. It wires the catalog provider and assignment writer
// for the configured source, opens the wizard manager and starts the idle
// sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from environment",
			zap.Int("count", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("fetch", cur.Fetch),
			zap.Duration("submit", cur.Submit),
			zap.Duration("schema", cur.Schema))
	}

	provider, writer, err := buildBackends(appCfg, deps, logger)
	if err != nil {
		return err
	}

	mgr := wizard.NewManager(provider, writer, wizard.Options{FetchConcurrency: appCfg.FetchConcurrency}, logger)
	sweep := workers.NewWizardSweep(mgr, logger, appCfg.WizardSweepInterval, appCfg.WizardIdleTimeout)
	sweep.Start()

	svc = &services{wizards: mgr, sweep: sweep}
	if appCfg.WizardOpenLimit > 0 {
		svc.openLimit = ratelimit.New(appCfg.WizardOpenLimit, time.Minute)
	}
	return nil
}

// buildBackends picks the catalog provider and assignment writer.
func buildBackends(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (hierarchy.Provider, submit.Writer, error) {
	var (
		provider hierarchy.Provider
		writer   submit.Writer
	)
	switch appCfg.CatalogSource {
	case SourceHTTP:
		client, err := restclient.New(restclient.Config{
			BaseURL: appCfg.CollaboratorBaseURL,
			Token:   appCfg.CollaboratorToken,
			Timeout: appCfg.CollaboratorTimeout,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("collaborator client: %w", err)
		}
		provider, writer = client, client
	case SourceMongo:
		if deps.MongoDatabase == nil {
			return nil, nil, fmt.Errorf("catalog_source=mongo requires a MongoDB connection")
		}
		provider = catalogstore.New(deps.MongoDatabase)
		writer = assignmentstore.New(deps.MongoDatabase, logger)
	default:
		return nil, nil, fmt.Errorf("unknown catalog_source %q", appCfg.CatalogSource)
	}

	if deps.Redis != nil {
		provider = catalogcache.New(provider, deps.Redis, appCfg.CatalogCacheTTL, logger)
		logger.Info("catalog cache enabled", zap.Duration("ttl", appCfg.CatalogCacheTTL))
	}
	logger.Info("assignment backends ready", zap.String("source", appCfg.CatalogSource))
	return provider, writer, nil
}
