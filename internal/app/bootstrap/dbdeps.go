// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis backs the catalog cache. It is nil unless redis_addr is
	// configured and answered at startup.
	Redis *goredis.Client

	// RedisHealth is set whenever redis_addr is configured, reachable or
	// not, and is what /health pings. When Redis is set they are the same
	// client.
	RedisHealth *goredis.Client
}
