// Package bankers implements the Banker's safety algorithm as a stepwise,
// pausable animation: each algorithmic decision is shown (highlight) one
// step before its effect is applied (commit).
package bankers

import (
	"errors"
	"fmt"
	"time"

	"osviz/snapshot"
)

// Vector is an ordered sequence of non-negative resource quantities, one
// per resource type. The live derivation is one-dimensional (memory MB).
type Vector []int

// Leq reports whether every component of v is <= the matching component of w.
func (v Vector) Leq(w Vector) bool {
	for i := range v {
		if v[i] > w[i] {
			return false
		}
	}
	return true
}

// AddInPlace adds w into v component-wise.
func (v Vector) AddInPlace(w Vector) {
	for i := range v {
		v[i] += w[i]
	}
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Process identifies one simulated process.
type Process struct {
	Name string
	PID  int32
}

// State holds the algorithm input matrices. Invariant, checked at
// construction: Need = MaxClaim - Allocation, component-wise, always >= 0.
type State struct {
	Procs      []Process
	Available  Vector
	Allocation []Vector
	MaxClaim   []Vector
	Need       []Vector
}

// NewState validates matrix shapes and derives Need.
func NewState(procs []Process, available Vector, allocation, maxClaim []Vector) (*State, error) {
	n := len(procs)
	if len(allocation) != n || len(maxClaim) != n {
		return nil, errors.New("bankers: allocation and max claim must have one row per process")
	}
	dims := len(available)
	need := make([]Vector, n)
	for i := 0; i < n; i++ {
		if len(allocation[i]) != dims || len(maxClaim[i]) != dims {
			return nil, fmt.Errorf("bankers: row %d dimension mismatch", i)
		}
		need[i] = make(Vector, dims)
		for d := 0; d < dims; d++ {
			need[i][d] = maxClaim[i][d] - allocation[i][d]
			if need[i][d] < 0 {
				return nil, fmt.Errorf("bankers: negative need for process %d", i)
			}
		}
	}
	return &State{
		Procs:      procs,
		Available:  available.Clone(),
		Allocation: allocation,
		MaxClaim:   maxClaim,
		Need:       need,
	}, nil
}

// FromSnapshot derives algorithm input from live memory records:
// Allocation is resident size, MaxClaim is virtual size (both MB). A max
// claim at or below the allocation is bumped to allocation + 20% + 10 MB so
// every process has a positive remaining claim.
func FromSnapshot(records []snapshot.MemProcess, availableMB int) (*State, error) {
	const mb = 1024 * 1024
	procs := make([]Process, len(records))
	allocation := make([]Vector, len(records))
	maxClaim := make([]Vector, len(records))
	for i, rec := range records {
		procs[i] = Process{Name: rec.Name, PID: rec.PID}
		alloc := int(rec.RSS / mb)
		max := int(rec.VMS / mb)
		if max <= alloc {
			max = alloc + alloc/5 + 10
		}
		allocation[i] = Vector{alloc}
		maxClaim[i] = Vector{max}
	}
	return NewState(procs, Vector{availableMB}, allocation, maxClaim)
}

// Outcome is the terminal result of a safety run. SAFE and UNSAFE are
// first-class outcomes, not errors.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeSafe
	OutcomeUnsafe
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSafe:
		return "safe"
	case OutcomeUnsafe:
		return "unsafe"
	default:
		return "running"
	}
}

// Highlight colors carried on frames.
const (
	ColorChecking = "orange"
	ColorFinished = "green"
	ColorUnsafe   = "red"
)

// Row is one rendered matrix row.
type Row struct {
	Process    string `json:"process"`
	PID        int32  `json:"pid"`
	Allocation Vector `json:"allocation"`
	MaxClaim   Vector `json:"maxClaim"`
	Need       Vector `json:"need"`
	Finished   bool   `json:"finished"`
}

// Frame is the rendering snapshot emitted after every step.
type Frame struct {
	Rows           []Row    `json:"rows"`
	Available      Vector   `json:"available"`
	Work           Vector   `json:"work"`
	SafeSequence   []string `json:"safeSequence"`
	HighlightRow   int      `json:"highlightRow"`
	HighlightColor string   `json:"highlightColor,omitempty"`
	Message        string   `json:"message"`
	Status         string   `json:"status"`
}

type phase int

const (
	phaseSelect phase = iota
	phaseCommit
)

// Run is one safety-algorithm execution over a State. It implements
// engine.Stepper: SELECT steps highlight the chosen process, COMMIT steps
// (separately timed) apply its effect.
type Run struct {
	state   *State
	work    Vector
	finish  []bool
	safeSeq []int
	phase   phase
	pending int
	outcome Outcome
	delay   time.Duration
	publish func(*Frame)
}

// NewRun prepares an execution with the given inter-step delay.
func NewRun(state *State, delay time.Duration, publish func(*Frame)) *Run {
	return &Run{
		state:   state,
		work:    state.Available.Clone(),
		finish:  make([]bool, len(state.Procs)),
		phase:   phaseSelect,
		pending: -1,
		delay:   delay,
		publish: publish,
	}
}

// Step advances the algorithm by one discrete unit.
func (r *Run) Step() (time.Duration, bool) {
	switch r.phase {
	case phaseCommit:
		return r.commit()
	default:
		return r.selectNext()
	}
}

// selectNext scans process indices in increasing order for the first
// unfinished process whose need fits within work. The scan order is the
// tie-break: the lowest index always wins.
func (r *Run) selectNext() (time.Duration, bool) {
	n := len(r.state.Procs)
	if len(r.safeSeq) == n {
		r.outcome = OutcomeSafe
		r.emit(-1, "", "System is SAFE.", OutcomeSafe)
		return 0, true
	}
	for i := 0; i < n; i++ {
		if r.finish[i] || !r.state.Need[i].Leq(r.work) {
			continue
		}
		r.pending = i
		r.phase = phaseCommit
		msg := fmt.Sprintf("Checking %s: Need <= Work. Executing...", r.state.Procs[i].Name)
		r.emit(i, ColorChecking, msg, OutcomeRunning)
		return r.delay, false
	}
	r.outcome = OutcomeUnsafe
	r.emit(-1, ColorUnsafe, "System is UNSAFE. Deadlock possible.", OutcomeUnsafe)
	return 0, true
}

// commit applies the effect highlighted by the previous step: the process
// finishes and releases its allocation back into work.
func (r *Run) commit() (time.Duration, bool) {
	i := r.pending
	r.work.AddInPlace(r.state.Allocation[i])
	r.finish[i] = true
	r.safeSeq = append(r.safeSeq, i)
	r.pending = -1
	r.phase = phaseSelect
	msg := fmt.Sprintf("%s finished. Releasing resources.", r.state.Procs[i].Name)
	r.emit(i, ColorFinished, msg, OutcomeRunning)
	return r.delay, false
}

// Outcome returns the terminal result, or OutcomeRunning mid-run.
func (r *Run) Outcome() Outcome {
	return r.outcome
}

// SafeSequence returns the committed process indices in execution order.
func (r *Run) SafeSequence() []int {
	out := make([]int, len(r.safeSeq))
	copy(out, r.safeSeq)
	return out
}

// CurrentFrame renders the present state without advancing, for the
// initial "ready" display.
func (r *Run) CurrentFrame(message string) *Frame {
	return r.buildFrame(-1, "", message, r.outcome)
}

func (r *Run) emit(highlight int, color, message string, outcome Outcome) {
	if r.publish == nil {
		return
	}
	r.publish(r.buildFrame(highlight, color, message, outcome))
}

func (r *Run) buildFrame(highlight int, color, message string, outcome Outcome) *Frame {
	rows := make([]Row, len(r.state.Procs))
	for i, p := range r.state.Procs {
		rows[i] = Row{
			Process:    p.Name,
			PID:        p.PID,
			Allocation: r.state.Allocation[i].Clone(),
			MaxClaim:   r.state.MaxClaim[i].Clone(),
			Need:       r.state.Need[i].Clone(),
			Finished:   r.finish[i],
		}
	}
	seq := make([]string, len(r.safeSeq))
	for i, idx := range r.safeSeq {
		seq[i] = r.state.Procs[idx].Name
	}
	return &Frame{
		Rows:           rows,
		Available:      r.state.Available.Clone(),
		Work:           r.work.Clone(),
		SafeSequence:   seq,
		HighlightRow:   highlight,
		HighlightColor: color,
		Message:        message,
		Status:         outcome.String(),
	}
}
