package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/workers"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
	called  chan struct{}
}

func newFakePruner() *fakePruner {
	return &fakePruner{called: make(chan struct{}, 8)}
}

func (f *fakePruner) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, cutoff)
	f.mu.Unlock()
	f.called <- struct{}{}
	return 3, f.err
}

func waitCall(t *testing.T, f *fakePruner) {
	t.Helper()
	select {
	case <-f.called:
	case <-time.After(2 * time.Second):
		t.Fatal("pruner was not called")
	}
}

func TestAuditRetention_PrunesOnStartWithRetentionCutoff(t *testing.T) {
	f := newFakePruner()
	w := workers.NewAuditRetention(f, zap.NewNop(), time.Hour, 24*time.Hour)
	before := time.Now()
	w.Start()
	waitCall(t, f)
	w.Stop()

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cutoffs) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.cutoffs))
	}
	age := before.Sub(f.cutoffs[0])
	if age < 23*time.Hour || age > 25*time.Hour {
		t.Errorf("cutoff is %v before start, want about 24h", age)
	}
}

func TestAuditRetention_RunsOnInterval(t *testing.T) {
	f := newFakePruner()
	w := workers.NewAuditRetention(f, zap.NewNop(), 10*time.Millisecond, time.Hour)
	w.Start()
	defer w.Stop()

	waitCall(t, f)
	waitCall(t, f)
}

func TestAuditRetention_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	f := newFakePruner()
	f.err = errors.New("mongo down")

	w := workers.NewAuditRetention(f, zap.New(core), time.Hour, time.Hour)
	w.Start()
	waitCall(t, f)
	w.Stop()
	w.Stop()

	if logs.FilterMessage("failed to prune audit events").Len() != 1 {
		t.Errorf("expected one failure log, got %v", logs.All())
	}
}
