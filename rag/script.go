package rag

import "errors"

// StepKind discriminates the animation step variants.
type StepKind string

const (
	StepNarrate         StepKind = "narrate"
	StepDrawProcess     StepKind = "drawProcess"
	StepDrawResource    StepKind = "drawResource"
	StepDrawAssignEdge  StepKind = "drawAssignEdge"
	StepDrawRequestEdge StepKind = "drawRequestEdge"
	StepDetectCycle     StepKind = "detectCycle"
)

// Step is one unit of the deadlock animation script: a tagged variant with
// named fields per kind. Scripts are precomputed and executed as a cursor
// walk; there is no branching.
type Step struct {
	Kind     StepKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Process  string   `json:"process,omitempty"`
	Resource string   `json:"resource,omitempty"`
	Cycle    []string `json:"cycle,omitempty"`
}

// Narrate updates the status text only.
func Narrate(text string) Step {
	return Step{Kind: StepNarrate, Text: text}
}

// DrawProcess places a process node on the canvas.
func DrawProcess(id string) Step {
	return Step{Kind: StepDrawProcess, Process: id}
}

// DrawResource places a resource node on the canvas.
func DrawResource(id string) Step {
	return Step{Kind: StepDrawResource, Resource: id}
}

// DrawAssignEdge draws a hold edge resource -> process.
func DrawAssignEdge(resource, process string) Step {
	return Step{Kind: StepDrawAssignEdge, Resource: resource, Process: process}
}

// DrawRequestEdge draws a request edge process -> resource.
func DrawRequestEdge(process, resource string) Step {
	return Step{Kind: StepDrawRequestEdge, Process: process, Resource: resource}
}

// DetectCycle reports the cycle that the construction order guarantees.
func DetectCycle(cycle []string) Step {
	return Step{Kind: StepDetectCycle, Cycle: cycle}
}

// Validate checks that the step carries the fields its kind requires.
func (s Step) Validate() error {
	switch s.Kind {
	case StepNarrate:
		if s.Text == "" {
			return errors.New("rag: narrate step requires text")
		}
	case StepDrawProcess:
		if s.Process == "" {
			return errors.New("rag: draw process step requires a process id")
		}
	case StepDrawResource:
		if s.Resource == "" {
			return errors.New("rag: draw resource step requires a resource id")
		}
	case StepDrawAssignEdge, StepDrawRequestEdge:
		if s.Process == "" || s.Resource == "" {
			return errors.New("rag: edge step requires both endpoints")
		}
	case StepDetectCycle:
		if len(s.Cycle) < 2 {
			return errors.New("rag: detect step requires a cycle sequence")
		}
	default:
		return errors.New("rag: unknown step kind")
	}
	return nil
}
