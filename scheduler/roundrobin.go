// Package scheduler simulates Round-Robin CPU scheduling over processes
// ranked by live CPU usage, producing a Gantt-style execution trace.
package scheduler

import (
	"time"

	"osviz/queue"
	"osviz/snapshot"
)

// DefaultQuantum is the fixed maximum ticks granted per process per turn.
const DefaultQuantum = 2

// palette matches process rows to Gantt segments; assigned by rank order.
var palette = []string{"#FF6347", "#4682B4", "#32CD32", "#FFD700", "#6A5ACD"}

// Process is one simulated scheduling entity. Burst and Remaining are in
// ticks; CPUPercent is the measured usage the burst was derived from.
type Process struct {
	Name       string  `json:"name"`
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpuPercent"`
	Burst      int     `json:"burst"`
	Remaining  int     `json:"remaining"`
	Color      string  `json:"color"`
}

// BurstFromCPU maps a measured CPU percentage to a simulated burst:
// max(2, floor(cpu*0.5)+1). A display heuristic, monotonic and
// deterministic; reproduced exactly for test parity.
func BurstFromCPU(cpuPercent float64) int {
	burst := int(cpuPercent*0.5) + 1
	if burst < 2 {
		burst = 2
	}
	return burst
}

// FromSnapshot builds scheduling entities from CPU-ranked records.
func FromSnapshot(records []snapshot.CPUProcess) []*Process {
	procs := make([]*Process, len(records))
	for i, rec := range records {
		burst := BurstFromCPU(rec.CPUPercent)
		procs[i] = &Process{
			Name:       rec.Name,
			PID:        rec.PID,
			CPUPercent: rec.CPUPercent,
			Burst:      burst,
			Remaining:  burst,
			Color:      palette[i%len(palette)],
		}
	}
	return procs
}

// GanttSegment is one recorded interval of CPU occupancy. The Gantt trace
// is append-only; segments are never mutated once recorded.
type GanttSegment struct {
	Process  string `json:"process"`
	Start    int    `json:"start"`
	Duration int    `json:"duration"`
	Color    string `json:"color"`
}

// Frame is the rendering snapshot emitted after every tick.
type Frame struct {
	Timer      int            `json:"timer"`
	Gantt      []GanttSegment `json:"gantt"`
	CPU        string         `json:"cpu"`
	CPUColor   string         `json:"cpuColor,omitempty"`
	ReadyQueue []string       `json:"readyQueue"`
	Processes  []Process      `json:"processes"`
	Message    string         `json:"message,omitempty"`
	Status     string         `json:"status"`
}

// Run is one Round-Robin execution. Implements engine.Stepper: one tick per
// step. The timer is zero-based and advances by exactly one per tick; the
// CPU is dispatched at the top of the tick, so it is never idle while the
// ready queue is non-empty and the final timer equals the sum of all bursts.
type Run struct {
	procs    []*Process
	ready    *queue.TrackedQueue[*Process]
	current  *Process
	slice    int
	segStart int
	timer    int
	gantt    []GanttSegment
	quantum  int
	delay    time.Duration
	publish  func(*Frame)
}

// NewRun seeds the ready queue with every process in rank order
// (arrival = 0 for all).
func NewRun(procs []*Process, quantum int, delay time.Duration, publish func(*Frame)) *Run {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	ready := queue.NewTrackedQueue[*Process]("ready", queue.UnlimitedCapacity, queue.Hooks[*Process]{})
	for _, p := range procs {
		ready.Enqueue(p, 0)
	}
	return &Run{
		procs:   procs,
		ready:   ready,
		quantum: quantum,
		delay:   delay,
		publish: publish,
	}
}

// Step executes one scheduler tick.
func (r *Run) Step() (time.Duration, bool) {
	if r.current == nil {
		if p, ok := r.ready.PopFront(r.timer); ok {
			r.current = p
			r.slice = 0
			r.segStart = r.timer
		}
	}
	if r.current != nil {
		r.current.Remaining--
		r.slice++
		switch {
		case r.current.Remaining == 0:
			r.closeSegment()
			r.current = nil
			r.slice = 0
		case r.slice == r.quantum:
			requeued := r.current
			r.closeSegment()
			r.current = nil
			r.slice = 0
			r.ready.Enqueue(requeued, r.timer)
		}
	}
	r.timer++
	done := !r.hasWork()
	r.emit(done)
	return r.delay, done
}

func (r *Run) closeSegment() {
	r.gantt = append(r.gantt, GanttSegment{
		Process:  r.current.Name,
		Start:    r.segStart,
		Duration: r.slice,
		Color:    r.current.Color,
	})
}

func (r *Run) hasWork() bool {
	if r.current != nil || r.ready.Len() > 0 {
		return true
	}
	for _, p := range r.procs {
		if p.Remaining > 0 {
			return true
		}
	}
	return false
}

// Timer returns the current tick count.
func (r *Run) Timer() int {
	return r.timer
}

// Gantt returns the execution trace recorded so far.
func (r *Run) Gantt() []GanttSegment {
	out := make([]GanttSegment, len(r.gantt))
	copy(out, r.gantt)
	return out
}

// CurrentFrame renders the present state without advancing.
func (r *Run) CurrentFrame() *Frame {
	return r.buildFrame(false)
}

func (r *Run) emit(done bool) {
	if r.publish == nil {
		return
	}
	r.publish(r.buildFrame(done))
}

func (r *Run) buildFrame(done bool) *Frame {
	readyNames := make([]string, 0, r.ready.Len())
	for _, p := range r.ready.Items() {
		readyNames = append(readyNames, p.Name)
	}
	rows := make([]Process, len(r.procs))
	for i, p := range r.procs {
		rows[i] = *p
	}
	frame := &Frame{
		Timer:      r.timer,
		Gantt:      r.Gantt(),
		ReadyQueue: readyNames,
		Processes:  rows,
		Status:     "running",
	}
	if r.current != nil {
		frame.CPU = r.current.Name
		frame.CPUColor = r.current.Color
	}
	if done {
		frame.Status = "done"
	}
	return frame
}
