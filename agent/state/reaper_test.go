package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestReaperRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{now: time.Now()}
	store := NewMemoryStore(WithClock(clock.Now))
	store.GetOrCreate("old")
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewReaper(store, time.Minute, 5*time.Millisecond).Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("reaper did not evict the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestReaperDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	if err := NewReaper(store, 0, time.Millisecond).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
