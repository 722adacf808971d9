package engine

import (
	"sync"
	"time"
)

// Stepper executes one discrete unit of simulation work per call. Step
// mutates algorithm state, emits one rendering frame, and reports the delay
// until the next step. done=true means the run reached a terminal outcome
// and no further step may be scheduled.
type Stepper interface {
	Step() (next time.Duration, done bool)
}

// Engine drives a Stepper with cooperative timer-based deferral. At most one
// step is logically in flight: a mutex serializes advancement, and the only
// suspension points are the pause check at the top of advance and the gap
// between scheduled deferrals.
//
// Pending deferrals are invalidated by a generation counter: Pause and Reset
// bump the generation, so a callback that already left time.AfterFunc finds
// a stale generation and becomes a no-op. A pending callback firing after
// Reset must never mutate state.
type Engine struct {
	mu      sync.Mutex
	stepper Stepper
	timer   *time.Timer
	paused  bool
	active  bool
	gen     uint64
}

// New creates an engine around the given stepper.
func New(stepper Stepper) *Engine {
	return &Engine{stepper: stepper}
}

// Start begins a run, invoking the first step immediately. Starting an
// already active run is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.active || e.stepper == nil {
		e.mu.Unlock()
		return
	}
	e.active = true
	e.paused = false
	e.gen++
	gen := e.gen
	e.mu.Unlock()
	e.advance(gen)
}

// Pause suspends automatic advancement. The pending deferral is cancelled;
// state is preserved at the last committed step.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || e.paused {
		return
	}
	e.paused = true
	e.gen++
	e.stopTimerLocked()
}

// Resume clears the paused flag and re-enters the step function at the
// exact suspended step. No steps are skipped or repeated.
func (e *Engine) Resume() {
	e.mu.Lock()
	if !e.active || !e.paused {
		e.mu.Unlock()
		return
	}
	e.paused = false
	e.gen++
	gen := e.gen
	e.mu.Unlock()
	e.advance(gen)
}

// StepOnce executes exactly one step while paused, without scheduling a
// follow-up. Ignored unless the run is active and paused.
func (e *Engine) StepOnce() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || !e.paused {
		return
	}
	if _, done := e.stepper.Step(); done {
		e.active = false
		e.paused = false
	}
}

// Reset cancels any pending deferral, clears paused state, and installs a
// freshly built stepper. The engine is left idle; call Start to run.
func (e *Engine) Reset(stepper Stepper) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.stopTimerLocked()
	e.paused = false
	e.active = false
	e.stepper = stepper
}

// Active reports whether a run is in progress (started and not yet halted).
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Paused reports whether the run is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Engine) advance(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || !e.active || e.paused {
		return
	}
	next, done := e.stepper.Step()
	if done {
		e.active = false
		return
	}
	e.timer = time.AfterFunc(next, func() { e.advance(gen) })
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// RunSync drives the stepper to completion without timer deferral. Used by
// headless mode and tests; honors the same one-step-at-a-time contract.
func (e *Engine) RunSync() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stepper == nil {
		return
	}
	e.active = true
	e.paused = false
	e.gen++
	for {
		if _, done := e.stepper.Step(); done {
			break
		}
	}
	e.active = false
}
