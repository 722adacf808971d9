package main

import (
	"osviz/engine"
	"osviz/rag"
	"osviz/snapshot"
	"osviz/visual"
)

// DeadlockController owns the resource-allocation-graph view. The scenario
// is sampled once per reset; reruns replay the same scenario so the drawn
// names stay stable while the animation restarts.
type DeadlockController struct {
	cfg      *Config
	provider snapshot.Provider
	bridge   *engine.VisualBridge[*rag.Frame]
	eng      *engine.Engine
	scenario rag.Scenario
}

// NewDeadlockController samples a scenario and renders the empty canvas.
func NewDeadlockController(cfg *Config, provider snapshot.Provider, viz visual.Visualizer) *DeadlockController {
	c := &DeadlockController{
		cfg:      cfg,
		provider: provider,
		eng:      engine.New(nil),
	}
	c.bridge = engine.NewVisualBridge[*rag.Frame](viz.IsHeadless(), func(frame *rag.Frame) {
		viz.PublishFrame(ViewDeadlock, frame)
	})
	c.setup()
	return c
}

// setup resamples the scenario. This view never refuses to run: telemetry
// gaps degrade to placeholder names inside ScenarioFromSnapshot.
func (c *DeadlockController) setup() {
	c.eng.Reset(nil)
	c.scenario = rag.ScenarioFromSnapshot(c.provider)
	if !c.scenario.Live {
		GetLogger().Debugf("deadlock: scenario uses placeholder names")
	}
	run := c.newRun()
	c.eng.Reset(run)
	c.bridge.Publish(&rag.Frame{
		Message:   "Ready. Press Run to build the resource allocation graph.",
		Status:    "idle",
		Live:      c.scenario.Live,
		StepCount: len(run.Script()),
	})
}

func (c *DeadlockController) newRun() *rag.Run {
	return rag.NewRun(c.scenario, c.cfg.StepDelay, c.bridge.Publish)
}

// HandleCommand applies one control command to this view.
func (c *DeadlockController) HandleCommand(kind visual.ControlCommandType) {
	switch kind {
	case visual.CommandRun:
		if c.eng.Active() {
			return
		}
		c.eng.Reset(c.newRun())
		c.eng.Start()
	case visual.CommandPause:
		c.eng.Pause()
	case visual.CommandResume:
		c.eng.Resume()
	case visual.CommandStep:
		c.eng.StepOnce()
	case visual.CommandReset:
		c.setup()
	}
}

// RunSync plays the animation to completion without delays.
func (c *DeadlockController) RunSync() *rag.Run {
	run := c.newRun()
	c.eng.Reset(run)
	c.eng.RunSync()
	return run
}
