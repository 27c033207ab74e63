package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/strataassign/internal/app/system/timeouts"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// RedisPinger is the part of a Redis client the health check uses.
type RedisPinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Redis  RedisPinger // nil when no catalog cache is configured
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. redis may be nil.
func NewHandler(client *mongo.Client, redis RedisPinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Redis:  redis,
		Log:    logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected" }
//
// A Redis failure only degrades the response (200, "status":"degraded")
// since catalog reads fall through to the source. On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Redis != nil {
		resp.Cache = "connected"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			h.Log.Warn("health-check: redis ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "disconnected"
			resp.Error = err.Error()
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
