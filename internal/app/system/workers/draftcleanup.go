// internal/app/system/workers/draftcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger removes expired records and reports how many went.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// DraftCleanup is a background worker that deletes expired registration
// drafts. Mongo's TTL monitor does the same job, but on its own schedule.
type DraftCleanup struct {
	drafts   Purger
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDraftCleanup creates a cleanup worker that runs every interval.
func NewDraftCleanup(drafts Purger, logger *zap.Logger, interval time.Duration) *DraftCleanup {
	return &DraftCleanup{
		drafts:   drafts,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *DraftCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("draft cleanup worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *DraftCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("draft cleanup worker stopped")
}

func (w *DraftCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *DraftCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.drafts.PurgeExpired(ctx, w.now())
	if err != nil {
		w.log.Error("failed to purge expired drafts", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged expired drafts", zap.Int64("count", count))
	}
}
