// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Catalog sources.
const (
	SourceMongo = "mongo" // catalog and assignments live in this service's database
	SourceHTTP  = "http"  // catalog and assignments belong to a collaborator service
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging level and CORS. AppConfig
// covers the backends the wizard reads from and writes to, the ownership
// cookie, and wizard session lifetimes.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Wizard ownership cookie
	SessionKey    string // Secret key for signing the cookie (must be strong in production)
	SessionName   string // Cookie name (default: strataassign-wizard)
	SessionDomain string // Cookie domain (blank means current host)

	// Where the catalog/roster is read and assignments are written:
	// SourceMongo or SourceHTTP.
	CatalogSource string

	// Collaborator HTTP endpoints (CatalogSource == SourceHTTP)
	CollaboratorBaseURL string
	CollaboratorToken   string
	CollaboratorTimeout time.Duration

	// Optional Redis read-through cache for catalog reads (blank disables it)
	RedisAddr       string
	CatalogCacheTTL time.Duration

	// Wizard sessions
	FetchConcurrency    int           // bound on per-course / per-class fan-out
	WizardIdleTimeout   time.Duration // idle wizards are closed after this
	WizardSweepInterval time.Duration // how often idle wizards are looked for
	WizardOpenLimit     int           // wizard opens per client IP per minute; 0 disables
}
