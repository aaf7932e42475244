package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakePurger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePurger) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	return 2, f.err
}

func TestDraftCleanup_RunsUntilStopped(t *testing.T) {
	p := &fakePurger{}
	w := NewDraftCleanup(p, zap.NewNop(), 5*time.Millisecond)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	got := p.calls.Load()
	if got < 2 {
		t.Fatalf("calls: got %d, want at least 2", got)
	}
	time.Sleep(20 * time.Millisecond)
	if after := p.calls.Load(); after != got {
		t.Errorf("calls after Stop: got %d, want %d", after, got)
	}
}

func TestDraftCleanup_ErrorIsLogged(t *testing.T) {
	p := &fakePurger{err: errors.New("boom")}
	w := NewDraftCleanup(p, zap.NewNop(), time.Hour)
	w.cleanup()
	if p.calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", p.calls.Load())
	}
}
