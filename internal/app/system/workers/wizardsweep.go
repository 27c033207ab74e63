// internal/app/system/workers/wizardsweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// IdleCloser closes wizard sessions unused for longer than a threshold
// and reports how many it closed. *wizard.Manager implements it.
type IdleCloser interface {
	CloseIdle(threshold time.Duration) int
}

// WizardSweep is a background worker that closes idle wizard sessions.
type WizardSweep struct {
	sessions          IdleCloser
	log               *zap.Logger
	interval          time.Duration
	inactiveThreshold time.Duration
	stopCh            chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
}

// NewWizardSweep creates the worker.
//
// Parameters:
//   - sessions: the wizard session manager
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
//   - inactiveThreshold: how long a wizard must be idle before it is closed (e.g., 30 minutes)
func NewWizardSweep(sessions IdleCloser, logger *zap.Logger, interval, inactiveThreshold time.Duration) *WizardSweep {
	return &WizardSweep{
		sessions:          sessions,
		log:               logger,
		interval:          interval,
		inactiveThreshold: inactiveThreshold,
		stopCh:            make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *WizardSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("wizard sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("inactive_threshold", w.inactiveThreshold))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *WizardSweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("wizard sweep worker stopped")
	})
}

func (w *WizardSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *WizardSweep) sweep() {
	if n := w.sessions.CloseIdle(w.inactiveThreshold); n > 0 {
		w.log.Info("closed idle wizard sessions", zap.Int("count", n))
	}
}
