// Package rag builds a small resource-allocation graph from two sampled
// processes and two resources, and animates the induced circular wait.
//
// The graph is fixed-shape by design: construction order guarantees the
// cycle P1 -> R2 -> P2 -> R1 -> P1, so detection is a constant-time
// confirmation, never a search over arbitrary topology.
package rag

import (
	"fmt"
	"time"

	"osviz/snapshot"
)

// NodeKind discriminates graph node variants.
type NodeKind string

const (
	NodeProcess  NodeKind = "process"
	NodeResource NodeKind = "resource"
)

// Node is one graph vertex with a fixed canvas position.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`
	X     int      `json:"x"`
	Y     int      `json:"y"`
}

// EdgeKind discriminates hold and request edges.
type EdgeKind string

const (
	EdgeAssignment EdgeKind = "assignment" // resource -> process
	EdgeRequest    EdgeKind = "request"    // process -> resource
)

// Edge is one directed graph edge.
type Edge struct {
	Kind EdgeKind `json:"kind"`
	From string   `json:"from"`
	To   string   `json:"to"`
}

// Graph is the accumulated drawing state.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (g *Graph) hasEdge(kind EdgeKind, from, to string) bool {
	for _, e := range g.Edges {
		if e.Kind == kind && e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Detect confirms the constructed circular wait. It returns the literal
// cycle P1 -> R2 -> P2 -> R1 -> P1 once both cross-requests and both holds
// are present, nil otherwise.
func Detect(g *Graph) []string {
	if g == nil {
		return nil
	}
	complete := g.hasEdge(EdgeAssignment, "R1", "P1") &&
		g.hasEdge(EdgeAssignment, "R2", "P2") &&
		g.hasEdge(EdgeRequest, "P1", "R2") &&
		g.hasEdge(EdgeRequest, "P2", "R1")
	if !complete {
		return nil
	}
	return []string{"P1", "R2", "P2", "R1", "P1"}
}

// Scenario names the two processes and two resources of the animation.
// Live reports whether every name came from real telemetry; placeholder
// runs are flagged so the frontend can mark them as synthetic.
type Scenario struct {
	Process1  string
	Process2  string
	Resource1 string
	Resource2 string
	Live      bool
}

// ScenarioFromSnapshot picks the two busiest processes by memory and a
// representative open file for each. Any telemetry failure degrades to a
// placeholder name; the simulation always proceeds.
func ScenarioFromSnapshot(provider snapshot.Provider) Scenario {
	sc := Scenario{
		Process1:  "Process A",
		Process2:  "Process B",
		Resource1: "resource-1",
		Resource2: "resource-2",
		Live:      false,
	}
	if provider == nil {
		return sc
	}
	procs := provider.TopByMemory(2)
	if len(procs) < 2 {
		return sc
	}
	sc.Process1 = procs[0].Name
	sc.Process2 = procs[1].Name
	sc.Live = true
	if name, ok := provider.OpenResourceName(procs[0].PID); ok {
		sc.Resource1 = name
	} else {
		sc.Live = false
	}
	if name, ok := provider.OpenResourceName(procs[1].PID); ok {
		sc.Resource2 = name
	} else {
		sc.Live = false
	}
	return sc
}

// nodeSet returns the four nodes of the scenario at their fixed canvas
// positions.
func nodeSet(sc Scenario) map[string]Node {
	return map[string]Node{
		"P1": {ID: "P1", Label: fmt.Sprintf("P1 (%s)", sc.Process1), Kind: NodeProcess, X: 200, Y: 150},
		"P2": {ID: "P2", Label: fmt.Sprintf("P2 (%s)", sc.Process2), Kind: NodeProcess, X: 500, Y: 150},
		"R1": {ID: "R1", Label: fmt.Sprintf("R1 (%s)", sc.Resource1), Kind: NodeResource, X: 200, Y: 350},
		"R2": {ID: "R2", Label: fmt.Sprintf("R2 (%s)", sc.Resource2), Kind: NodeResource, X: 500, Y: 350},
	}
}

// BuildScript emits the fixed animation script. The construction order is
// what guarantees the cycle.
func BuildScript(sc Scenario) []Step {
	return []Step{
		Narrate(fmt.Sprintf("Creating Process P1 (%s)...", sc.Process1)),
		DrawProcess("P1"),
		Narrate(fmt.Sprintf("Creating Resource R1 (%s)...", sc.Resource1)),
		DrawResource("R1"),
		Narrate("P1 acquires and holds R1."),
		DrawAssignEdge("R1", "P1"),
		Narrate(fmt.Sprintf("Creating Process P2 (%s)...", sc.Process2)),
		DrawProcess("P2"),
		Narrate(fmt.Sprintf("Creating Resource R2 (%s)...", sc.Resource2)),
		DrawResource("R2"),
		Narrate("P2 acquires and holds R2."),
		DrawAssignEdge("R2", "P2"),
		Narrate("Now, P1 requests resource R2 (held by P2)..."),
		DrawRequestEdge("P1", "R2"),
		Narrate("And P2 requests resource R1 (held by P1)..."),
		DrawRequestEdge("P2", "R1"),
		Narrate("A circular wait is formed! Detecting cycle..."),
		DetectCycle([]string{"P1", "R2", "P2", "R1", "P1"}),
	}
}

// Frame is the rendering snapshot emitted after every script step.
type Frame struct {
	Graph     Graph    `json:"graph"`
	Message   string   `json:"message"`
	Cycle     []string `json:"cycle,omitempty"`
	Status    string   `json:"status"`
	Live      bool     `json:"live"`
	StepIndex int      `json:"stepIndex"`
	StepCount int      `json:"stepCount"`
}

// Run walks a precomputed script one step per scheduled delay. Implements
// engine.Stepper.
type Run struct {
	scenario Scenario
	script   []Step
	nodes    map[string]Node
	graph    Graph
	cursor   int
	message  string
	cycle    []string
	delay    time.Duration
	publish  func(*Frame)
}

// NewRun prepares an animation for the scenario.
func NewRun(sc Scenario, delay time.Duration, publish func(*Frame)) *Run {
	return &Run{
		scenario: sc,
		script:   BuildScript(sc),
		nodes:    nodeSet(sc),
		delay:    delay,
		publish:  publish,
	}
}

// Script exposes the precomputed step sequence.
func (r *Run) Script() []Step {
	return r.script
}

// Step executes the script entry under the cursor and emits one frame.
func (r *Run) Step() (time.Duration, bool) {
	if r.cursor >= len(r.script) {
		return 0, true
	}
	step := r.script[r.cursor]
	switch step.Kind {
	case StepNarrate:
		r.message = step.Text
	case StepDrawProcess:
		r.graph.Nodes = append(r.graph.Nodes, r.nodes[step.Process])
	case StepDrawResource:
		r.graph.Nodes = append(r.graph.Nodes, r.nodes[step.Resource])
	case StepDrawAssignEdge:
		r.graph.Edges = append(r.graph.Edges, Edge{Kind: EdgeAssignment, From: step.Resource, To: step.Process})
	case StepDrawRequestEdge:
		r.graph.Edges = append(r.graph.Edges, Edge{Kind: EdgeRequest, From: step.Process, To: step.Resource})
	case StepDetectCycle:
		r.cycle = Detect(&r.graph)
		if r.cycle != nil {
			r.message = fmt.Sprintf("DEADLOCK DETECTED! Cycle: %s", joinCycle(r.cycle))
		}
	}
	r.cursor++
	done := r.cursor >= len(r.script)
	r.emit(done)
	return r.delay, done
}

// Cycle returns the detected cycle, nil before the detection step.
func (r *Run) Cycle() []string {
	return r.cycle
}

func (r *Run) emit(done bool) {
	if r.publish == nil {
		return
	}
	status := "running"
	if done && r.cycle != nil {
		status = "deadlock"
	}
	frame := &Frame{
		Graph: Graph{
			Nodes: append([]Node(nil), r.graph.Nodes...),
			Edges: append([]Edge(nil), r.graph.Edges...),
		},
		Message:   r.message,
		Status:    status,
		Live:      r.scenario.Live,
		StepIndex: r.cursor,
		StepCount: len(r.script),
	}
	if r.cycle != nil {
		frame.Cycle = append([]string(nil), r.cycle...)
	}
	r.publish(frame)
}

func joinCycle(cycle []string) string {
	out := ""
	for i, id := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += id
	}
	return out
}
