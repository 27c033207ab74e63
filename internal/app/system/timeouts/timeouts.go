// Package timeouts provides the timeout values used around I/O.
//
// Categories:
//   - Ping: health checks and connectivity verification
//   - Fetch: a single catalog level fetch (one collaborator call)
//   - Submit: handing an expanded batch to the assignment writer
//   - Schema: index creation and seeding at startup
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure or ConfigureFromEnv override them.
const (
	DefaultPing   = 2 * time.Second
	DefaultFetch  = 10 * time.Second
	DefaultSubmit = 30 * time.Second
	DefaultSchema = 60 * time.Second
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Fetch  time.Duration
	Submit time.Duration
	Schema time.Duration
}

func defaults() Config {
	return Config{Ping: DefaultPing, Fetch: DefaultFetch, Submit: DefaultSubmit, Schema: DefaultSchema}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return Current().Ping }

// Fetch returns the timeout for one catalog level fetch.
func Fetch() time.Duration { return Current().Fetch }

// Submit returns the timeout for a batch submission.
func Submit() time.Duration { return Current().Submit }

// Schema returns the timeout for startup schema work.
func Schema() time.Duration { return Current().Schema }

// Current returns a copy of the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range fields(&cur) {
		if v := f.pick(cfg); v > 0 {
			*f.dst = v
		}
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_FETCH, TIMEOUT_SUBMIT and
// TIMEOUT_SCHEMA (Go duration strings). Unset, unparsable and non-positive
// values are skipped. Returns how many values were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for _, f := range fields(&cur) {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.dst = d
			n++
		}
	}
	return n
}

type field struct {
	env  string
	dst  *time.Duration
	pick func(Config) time.Duration
}

func fields(c *Config) []field {
	return []field{
		{"TIMEOUT_PING", &c.Ping, func(x Config) time.Duration { return x.Ping }},
		{"TIMEOUT_FETCH", &c.Fetch, func(x Config) time.Duration { return x.Fetch }},
		{"TIMEOUT_SUBMIT", &c.Submit, func(x Config) time.Duration { return x.Submit }},
		{"TIMEOUT_SCHEMA", &c.Schema, func(x Config) time.Duration { return x.Schema }},
	}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Submit(), h.Log, "submit assignments")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
