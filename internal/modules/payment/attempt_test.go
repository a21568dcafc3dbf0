package payment

import (
	"errors"
	"sync"
	"testing"
)

func TestSettleOnlyOnce(t *testing.T) {
	a := &Attempt{status: StatusAwaitingWidget}
	if err := a.settle(StatusPaid); err != nil {
		t.Fatalf("first settle failed: %v", err)
	}
	if err := a.settle(StatusPending); !errors.Is(err, ErrAttemptSettled) {
		t.Fatalf("expected ErrAttemptSettled, got %v", err)
	}
	if a.Status() != StatusPaid {
		t.Fatalf("status = %v, the first outcome must stand", a.Status())
	}
}

func TestSettleRejectsUnstartedAttempt(t *testing.T) {
	a := &Attempt{status: StatusCreated}
	if err := a.settle(StatusPaid); !errors.Is(err, ErrAttemptSettled) {
		t.Fatalf("an attempt that never reached the widget cannot settle, got %v", err)
	}
}

func TestSettledReporting(t *testing.T) {
	a := &Attempt{status: StatusAwaitingWidget}
	if a.settled() {
		t.Fatal("awaiting-widget is not a settled state")
	}
	_ = a.settle(StatusCancelled)
	if !a.settled() {
		t.Fatal("cancelled is a settled state")
	}
}

func TestSettleConcurrent(t *testing.T) {
	a := &Attempt{status: StatusAwaitingWidget}
	outcomes := []Status{StatusPaid, StatusPending, StatusFailed, StatusCancelled}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, o := range outcomes {
		wg.Add(1)
		go func(to Status) {
			defer wg.Done()
			if err := a.settle(to); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(o)
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("exactly one concurrent outcome may win, got %d", wins)
	}
}
