// Package catalogcache is a Redis read-through cache in front of the
// catalog and roster collaborator. It is shared by every wizard session
// and every instance pointing at the same Redis; entries expire after a
// TTL. Redis trouble never fails a read: the collaborator is asked
// directly instead.
package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/system/timeouts"
	"github.com/dalemusser/strataassign/internal/domain/models"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "strataassign:catalog:"

// KV is the subset of a Redis client the cache uses.
type KV interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// NewClient returns a client for addr. It connects lazily, so a client
// for an unreachable server is still usable once the server comes up.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:                  addr,
		DialTimeout:           timeouts.Ping(),
		ContextTimeoutEnabled: true,
	})
}

// Ping checks rdb within timeouts.Ping.
func Ping(ctx context.Context, rdb *goredis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Provider wraps a hierarchy.Provider with the cache.
type Provider struct {
	next hierarchy.Provider
	kv   KV
	ttl  time.Duration
	log  *zap.Logger
}

// New returns a caching provider.
func New(next hierarchy.Provider, kv KV, ttl time.Duration, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{next: next, kv: kv, ttl: ttl, log: logger}
}

func (p *Provider) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return readThrough(ctx, p, "subjects", p.next.ListSubjects)
}

func (p *Provider) ListCourses(ctx context.Context) ([]models.Course, error) {
	return readThrough(ctx, p, "courses", p.next.ListCourses)
}

func (p *Provider) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	return readThrough(ctx, p, "chapters:"+courseID, func(ctx context.Context) ([]models.Chapter, error) {
		return p.next.ListChapters(ctx, courseID)
	})
}

func (p *Provider) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	return readThrough(ctx, p, "classes", p.next.ListClasses)
}

func (p *Provider) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	return readThrough(ctx, p, "students:"+classID, func(ctx context.Context) ([]models.Student, error) {
		return p.next.ListStudents(ctx, classID)
	})
}

func readThrough[T any](ctx context.Context, p *Provider, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	key := keyPrefix + name

	raw, err := p.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jerr := json.Unmarshal(raw, &out); jerr == nil {
			return out, nil
		}
		p.log.Warn("catalog cache entry unreadable", zap.String("key", key))
	case !errors.Is(err, goredis.Nil):
		p.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := p.kv.Set(ctx, key, b, p.ttl).Err(); err != nil {
		p.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}
