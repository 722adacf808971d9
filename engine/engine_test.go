package engine

import (
	"sync"
	"testing"
	"time"
)

// countingStepper emits an increasing sequence and halts after limit steps.
type countingStepper struct {
	mu    sync.Mutex
	steps []int
	limit int
	delay time.Duration
}

func (s *countingStepper) Step() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, len(s.steps))
	return s.delay, len(s.steps) >= s.limit
}

func (s *countingStepper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

func TestEngineRunsToCompletion(t *testing.T) {
	s := &countingStepper{limit: 5, delay: time.Millisecond}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return !e.Active() })
	if got := s.count(); got != 5 {
		t.Fatalf("expected 5 steps, got %d", got)
	}
}

func TestEnginePauseCancelsPendingAdvance(t *testing.T) {
	s := &countingStepper{limit: 100, delay: 5 * time.Millisecond}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return s.count() >= 2 })
	e.Pause()
	at := s.count()
	time.Sleep(50 * time.Millisecond)
	if got := s.count(); got != at {
		t.Fatalf("steps advanced while paused: %d -> %d", at, got)
	}
	if !e.Paused() {
		t.Fatalf("engine should report paused")
	}
}

func TestEngineResumeContinuesExactly(t *testing.T) {
	s := &countingStepper{limit: 6, delay: time.Millisecond}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return s.count() >= 3 })
	e.Pause()
	at := s.count()
	e.Resume()
	waitFor(t, func() bool { return !e.Active() })
	if got := s.count(); got != 6 {
		t.Fatalf("expected 6 total steps after resume, got %d", got)
	}
	// The sequence must be gapless: resume picks up at the suspended step.
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.steps {
		if v != i {
			t.Fatalf("step sequence has gap or repeat at %d: got %d", i, v)
		}
	}
	_ = at
}

func TestEngineResetInvalidatesPendingCallback(t *testing.T) {
	s := &countingStepper{limit: 100, delay: 20 * time.Millisecond}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return s.count() >= 1 })
	fresh := &countingStepper{limit: 100, delay: time.Hour}
	e.Reset(fresh)
	before := s.count()
	time.Sleep(80 * time.Millisecond)
	if got := s.count(); got != before {
		t.Fatalf("stale callback mutated old stepper after reset: %d -> %d", before, got)
	}
	if fresh.count() != 0 {
		t.Fatalf("reset must not start the new stepper")
	}
	if e.Active() {
		t.Fatalf("engine should be idle after reset")
	}
}

func TestEngineStepOnceWhilePaused(t *testing.T) {
	s := &countingStepper{limit: 100, delay: time.Hour}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return s.count() == 1 })
	e.Pause()
	e.StepOnce()
	if got := s.count(); got != 2 {
		t.Fatalf("expected exactly one extra step, got %d total", got)
	}
	time.Sleep(20 * time.Millisecond)
	if got := s.count(); got != 2 {
		t.Fatalf("StepOnce must not schedule a follow-up, got %d total", got)
	}
}

func TestEngineStepOnceIgnoredWhenRunning(t *testing.T) {
	s := &countingStepper{limit: 100, delay: time.Hour}
	e := New(s)
	e.Start()
	waitFor(t, func() bool { return s.count() == 1 })
	e.StepOnce()
	if got := s.count(); got != 1 {
		t.Fatalf("StepOnce while unpaused should be ignored, got %d", got)
	}
}

func TestEngineRunSync(t *testing.T) {
	s := &countingStepper{limit: 12, delay: time.Hour}
	e := New(s)
	e.RunSync()
	if got := s.count(); got != 12 {
		t.Fatalf("expected 12 steps, got %d", got)
	}
	if e.Active() {
		t.Fatalf("engine should be idle after RunSync")
	}
}
