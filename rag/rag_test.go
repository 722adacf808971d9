package rag

import (
	"testing"
	"time"

	"osviz/snapshot"
)

func TestBuildScriptShapeAndValidity(t *testing.T) {
	sc := Scenario{Process1: "chrome", Process2: "postgres", Resource1: "a.db", Resource2: "b.log", Live: true}
	script := BuildScript(sc)
	if len(script) != 18 {
		t.Fatalf("expected the fixed 18-step script, got %d", len(script))
	}
	for i, step := range script {
		if err := step.Validate(); err != nil {
			t.Fatalf("step %d invalid: %v", i, err)
		}
	}
	wantKinds := []StepKind{
		StepNarrate, StepDrawProcess,
		StepNarrate, StepDrawResource,
		StepNarrate, StepDrawAssignEdge,
		StepNarrate, StepDrawProcess,
		StepNarrate, StepDrawResource,
		StepNarrate, StepDrawAssignEdge,
		StepNarrate, StepDrawRequestEdge,
		StepNarrate, StepDrawRequestEdge,
		StepNarrate, StepDetectCycle,
	}
	for i, kind := range wantKinds {
		if script[i].Kind != kind {
			t.Fatalf("step %d kind %q, want %q", i, script[i].Kind, kind)
		}
	}
}

func TestRunDetectsConstructedCycle(t *testing.T) {
	sc := Scenario{Process1: "x", Process2: "y", Resource1: "r1", Resource2: "r2", Live: true}
	var frames []*Frame
	r := NewRun(sc, time.Millisecond, func(f *Frame) { frames = append(frames, f) })
	steps := 0
	for {
		steps++
		if steps > 20 {
			t.Fatalf("run did not terminate")
		}
		if _, done := r.Step(); done {
			break
		}
	}
	if steps != 18 {
		t.Fatalf("expected 18 steps, got %d", steps)
	}
	want := []string{"P1", "R2", "P2", "R1", "P1"}
	got := r.Cycle()
	if len(got) != len(want) {
		t.Fatalf("cycle length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cycle[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	last := frames[len(frames)-1]
	if last.Status != "deadlock" {
		t.Fatalf("terminal frame should report deadlock, got %q", last.Status)
	}
	if len(last.Graph.Nodes) != 4 || len(last.Graph.Edges) != 4 {
		t.Fatalf("final graph should have 4 nodes and 4 edges, got %d/%d",
			len(last.Graph.Nodes), len(last.Graph.Edges))
	}
}

func TestDetectRequiresCompleteConstruction(t *testing.T) {
	g := &Graph{}
	g.Edges = append(g.Edges, Edge{Kind: EdgeAssignment, From: "R1", To: "P1"})
	if Detect(g) != nil {
		t.Fatalf("partial graph must not report a cycle")
	}
}

func TestScenarioFromSnapshotLive(t *testing.T) {
	f := snapshot.NewFake()
	sc := ScenarioFromSnapshot(f)
	if !sc.Live {
		t.Fatalf("fake provider supplies both resources; run should be live")
	}
	if sc.Process1 != "browser" || sc.Process2 != "editor" {
		t.Fatalf("unexpected processes: %q %q", sc.Process1, sc.Process2)
	}
	if sc.Resource1 != "profile.db" || sc.Resource2 != "session.log" {
		t.Fatalf("unexpected resources: %q %q", sc.Resource1, sc.Resource2)
	}
}

func TestScenarioPlaceholderFallback(t *testing.T) {
	f := snapshot.NewFake()
	f.ResourceNames = nil
	sc := ScenarioFromSnapshot(f)
	if sc.Live {
		t.Fatalf("missing open files must flag the run as placeholder")
	}
	if sc.Resource1 != "resource-1" || sc.Resource2 != "resource-2" {
		t.Fatalf("expected synthetic resource names, got %q %q", sc.Resource1, sc.Resource2)
	}

	f.MemProcesses = f.MemProcesses[:1]
	sc = ScenarioFromSnapshot(f)
	if sc.Live || sc.Process1 != "Process A" {
		t.Fatalf("too few processes must fall back to the synthetic scenario")
	}
}

func TestStepValidation(t *testing.T) {
	bad := Step{Kind: StepDrawAssignEdge, Resource: "R1"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("edge step missing an endpoint must be invalid")
	}
	if err := (Step{Kind: "noSuchKind"}).Validate(); err == nil {
		t.Fatalf("unknown kind must be invalid")
	}
}
