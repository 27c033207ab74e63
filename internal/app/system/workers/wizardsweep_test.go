package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingCloser struct {
	calls     atomic.Int32
	threshold atomic.Int64
}

func (c *countingCloser) CloseIdle(threshold time.Duration) int {
	c.calls.Add(1)
	c.threshold.Store(int64(threshold))
	return 1
}

func TestWizardSweep_RunsUntilStopped(t *testing.T) {
	c := &countingCloser{}
	w := NewWizardSweep(c, zap.NewNop(), 5*time.Millisecond, 30*time.Minute)
	w.Start()

	deadline := time.Now().Add(time.Second)
	for c.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if got := c.calls.Load(); got < 2 {
		t.Fatalf("sweeps: got %d, want at least 2", got)
	}
	if got := time.Duration(c.threshold.Load()); got != 30*time.Minute {
		t.Errorf("threshold: got %v, want 30m", got)
	}

	after := c.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if c.calls.Load() != after {
		t.Error("worker kept sweeping after Stop")
	}
}
