package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Fetch: 3 * time.Second})
	if Fetch() != 3*time.Second {
		t.Errorf("Fetch: got %v", Fetch())
	}
	if Ping() != DefaultPing || Submit() != DefaultSubmit || Schema() != DefaultSchema {
		t.Errorf("unexpected change: %+v", Current())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv("TIMEOUT_PING", "750ms")
	t.Setenv("TIMEOUT_SUBMIT", "2m")
	t.Setenv("TIMEOUT_FETCH", "soon")
	t.Setenv("TIMEOUT_SCHEMA", "-1s")

	if n := ConfigureFromEnv(); n != 2 {
		t.Fatalf("configured: got %d, want 2", n)
	}
	want := Config{Ping: 750 * time.Millisecond, Fetch: DefaultFetch, Submit: 2 * time.Minute, Schema: DefaultSchema}
	if got := Current(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "fetch students")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("warnings: got %d, want 1", logs.Len())
	}
	if op := logs.All()[0].ContextMap()["operation"]; op != "fetch students" {
		t.Errorf("operation field: got %v", op)
	}
}
