// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	assignwizardfeature "github.com/dalemusser/strataassign/internal/app/features/assignwizard"
	healthfeature "github.com/dalemusser/strataassign/internal/app/features/health"
	"github.com/dalemusser/strataassign/internal/app/system/wizardcookie"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// Routes:
//
//	/health   liveness/readiness (MongoDB, optional Redis)
//	/assign   assignment wizard JSON API
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if svc == nil {
		return nil, errors.New("bootstrap: BuildHandler called before Startup")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	ownership, err := wizardcookie.New(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("wizard cookie init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, healthCache(deps), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	wizardHandler := assignwizardfeature.NewHandler(svc.wizards, ownership, logger)
	r.Mount("/assign", assignwizardfeature.Routes(wizardHandler, svc.openLimit))

	return r, nil
}

// healthCache is the Redis client /health pings: any configured one, even
// if it was down at startup, so an unreachable cache reports degraded.
func healthCache(deps DBDeps) healthfeature.RedisPinger {
	if deps.RedisHealth != nil {
		return deps.RedisHealth
	}
	if deps.Redis != nil {
		return deps.Redis
	}
	return nil
}
