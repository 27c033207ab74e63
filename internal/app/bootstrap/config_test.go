package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/strataassign/internal/app/collab/restclient"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "strata_assign_test",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		SessionKey:          "0123456789abcdef0123456789abcdef",
		SessionName:         "strataassign-wizard",
		CatalogSource:       SourceMongo,
		CollaboratorTimeout: 15 * time.Second,
		CatalogCacheTTL:     2 * time.Minute,
		FetchConcurrency:    8,
		WizardIdleTimeout:   30 * time.Minute,
		WizardSweepInterval: time.Minute,
		WizardOpenLimit:     30,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*AppConfig) {}},
		{name: "http with base url", mutate: func(c *AppConfig) {
			c.CatalogSource = SourceHTTP
			c.CollaboratorBaseURL = "https://lms.example.edu/api"
		}},
		{name: "bad mongo uri", mutate: func(c *AppConfig) { c.MongoURI = "postgres://nope" }, wantErr: "MongoDB URI"},
		{name: "http without base url", mutate: func(c *AppConfig) { c.CatalogSource = SourceHTTP }, wantErr: "collaborator_base_url"},
		{name: "http relative url", mutate: func(c *AppConfig) {
			c.CatalogSource = SourceHTTP
			c.CollaboratorBaseURL = "/api"
		}, wantErr: "absolute"},
		{name: "unknown source", mutate: func(c *AppConfig) { c.CatalogSource = "csv" }, wantErr: "catalog_source"},
		{name: "zero idle timeout", mutate: func(c *AppConfig) { c.WizardIdleTimeout = 0 }, wantErr: "wizard_idle_timeout"},
		{name: "negative ttl", mutate: func(c *AppConfig) { c.CatalogCacheTTL = -time.Second }, wantErr: "catalog_cache_ttl"},
		{name: "zero concurrency", mutate: func(c *AppConfig) { c.FetchConcurrency = 0 }, wantErr: "fetch_concurrency"},
		{name: "negative open limit", mutate: func(c *AppConfig) { c.WizardOpenLimit = -1 }, wantErr: "wizard_open_limit"},
		{name: "pool sizes", mutate: func(c *AppConfig) { c.MongoMinPoolSize = 200 }, wantErr: "mongo_min_pool_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildBackends_HTTP(t *testing.T) {
	cfg := validConfig()
	cfg.CatalogSource = SourceHTTP
	cfg.CollaboratorBaseURL = "https://lms.example.edu/api"

	provider, writer, err := buildBackends(cfg, DBDeps{}, zap.NewNop())
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	if _, ok := provider.(*restclient.Client); !ok {
		t.Errorf("provider: got %T, want *restclient.Client", provider)
	}
	if _, ok := writer.(*restclient.Client); !ok {
		t.Errorf("writer: got %T, want *restclient.Client", writer)
	}
}

func TestBuildBackends_MongoWithoutDatabase(t *testing.T) {
	if _, _, err := buildBackends(validConfig(), DBDeps{}, zap.NewNop()); err == nil {
		t.Fatal("expected error without a MongoDB connection")
	}
}

func TestBuildHandler_BeforeStartup(t *testing.T) {
	saved := svc
	svc = nil
	t.Cleanup(func() { svc = saved })

	if _, err := BuildHandler(&config.CoreConfig{}, validConfig(), DBDeps{}, zap.NewNop()); err == nil {
		t.Fatal("expected error before Startup")
	}
}
