package state

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLatchLifecycle(t *testing.T) {
	var l Latch
	if l.State() != NotStarted {
		t.Fatalf("zero latch state = %v, want not_started", l.State())
	}

	gen, ok := l.Begin()
	if !ok {
		t.Fatal("Begin() on fresh latch returned false")
	}
	if _, ok := l.Begin(); ok {
		t.Error("second Begin() succeeded while in progress")
	}
	if !l.Commit(gen) {
		t.Fatal("Commit() failed")
	}
	if !l.Done() {
		t.Error("Done() = false after Commit")
	}
	if _, ok := l.Begin(); ok {
		t.Error("Begin() succeeded after Commit")
	}
}

func TestLatchAbortAllowsRetry(t *testing.T) {
	var l Latch
	gen, _ := l.Begin()
	if !l.Abort(gen) {
		t.Fatal("Abort() failed")
	}
	if l.State() != NotStarted {
		t.Errorf("state after Abort = %v, want not_started", l.State())
	}
	if _, ok := l.Begin(); !ok {
		t.Error("Begin() after Abort returned false")
	}
}

func TestLatchStaleGenerationCannotCommit(t *testing.T) {
	var l Latch
	old, _ := l.Begin()
	l.Reset()

	if l.Commit(old) {
		t.Error("Commit with a generation from before Reset succeeded")
	}
	if l.Abort(old) {
		t.Error("Abort with a generation from before Reset succeeded")
	}
	if l.State() != NotStarted {
		t.Errorf("state = %v, want not_started", l.State())
	}

	gen, ok := l.Begin()
	if !ok || gen == old {
		t.Errorf("Begin() after Reset = (%d, %v), want new generation", gen, ok)
	}
}

func TestLatchConcurrentBegin(t *testing.T) {
	var l Latch
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := l.Begin(); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	if winners.Load() != 1 {
		t.Errorf("%d goroutines won Begin(), want exactly 1", winners.Load())
	}
}

func TestLatchStateString(t *testing.T) {
	tests := map[LatchState]string{
		NotStarted:    "not_started",
		InProgress:    "in_progress",
		Committed:     "committed",
		LatchState(9): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("LatchState(%d).String() = %q, want %q", s, got, want)
		}
	}
}
