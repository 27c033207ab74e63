// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StrataAssign.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, catalog_source, etc.
//   - Environment variables: STRATAASSIGN_MONGO_URI, STRATAASSIGN_REDIS_ADDR, etc.
//   - Command-line flags: --mongo_uri, --redis_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strata_assign", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Wizard cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "strataassign-wizard", Desc: "Wizard cookie name"},
	{Name: "session_domain", Default: "", Desc: "Wizard cookie domain (blank means current host)"},

	// Backends
	{Name: "catalog_source", Default: SourceMongo, Desc: "Catalog and assignment backend: 'mongo' or 'http'"},
	{Name: "collaborator_base_url", Default: "", Desc: "Base URL of the collaborator API (catalog_source=http)"},
	{Name: "collaborator_token", Default: "", Desc: "Bearer token for the collaborator API"},
	{Name: "collaborator_timeout", Default: "15s", Desc: "Per-request timeout for collaborator calls"},

	// Catalog cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the catalog cache (blank disables caching)"},
	{Name: "catalog_cache_ttl", Default: "2m", Desc: "How long cached catalog reads stay fresh"},

	// Wizard sessions
	{Name: "fetch_concurrency", Default: 8, Desc: "Max parallel per-course/per-class fetches per wizard"},
	{Name: "wizard_idle_timeout", Default: "30m", Desc: "Close wizards idle longer than this"},
	{Name: "wizard_sweep_interval", Default: "1m", Desc: "How often to look for idle wizards"},
	{Name: "wizard_open_limit", Default: 30, Desc: "Wizard opens allowed per client IP per minute (0 disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env (STRATAASSIGN_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STRATAASSIGN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		CatalogSource:       appValues.String("catalog_source"),
		CollaboratorBaseURL: appValues.String("collaborator_base_url"),
		CollaboratorToken:   appValues.String("collaborator_token"),
		CollaboratorTimeout: appValues.Duration("collaborator_timeout", 15*time.Second),

		RedisAddr:       appValues.String("redis_addr"),
		CatalogCacheTTL: appValues.Duration("catalog_cache_ttl", 2*time.Minute),

		FetchConcurrency:    appValues.Int("fetch_concurrency"),
		WizardIdleTimeout:   appValues.Duration("wizard_idle_timeout", 30*time.Minute),
		WizardSweepInterval: appValues.Duration("wizard_sweep_interval", time.Minute),
		WizardOpenLimit:     appValues.Int("wizard_open_limit"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked even in http mode: the health endpoint and
// index management always use it.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg)
}

func validateApp(appCfg AppConfig) error {
	switch appCfg.CatalogSource {
	case SourceMongo:
	case SourceHTTP:
		if appCfg.CollaboratorBaseURL == "" {
			return fmt.Errorf("catalog_source=http requires collaborator_base_url")
		}
		u, err := url.Parse(appCfg.CollaboratorBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("collaborator_base_url %q must be an absolute http(s) URL", appCfg.CollaboratorBaseURL)
		}
	default:
		return fmt.Errorf("catalog_source must be %q or %q, got %q", SourceMongo, SourceHTTP, appCfg.CatalogSource)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"collaborator_timeout", appCfg.CollaboratorTimeout},
		{"catalog_cache_ttl", appCfg.CatalogCacheTTL},
		{"wizard_idle_timeout", appCfg.WizardIdleTimeout},
		{"wizard_sweep_interval", appCfg.WizardSweepInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.d)
		}
	}
	if appCfg.FetchConcurrency < 1 {
		return fmt.Errorf("fetch_concurrency must be at least 1, got %d", appCfg.FetchConcurrency)
	}
	if appCfg.WizardOpenLimit < 0 {
		return fmt.Errorf("wizard_open_limit must not be negative, got %d", appCfg.WizardOpenLimit)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	return nil
}
