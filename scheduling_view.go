package main

import (
	"osviz/engine"
	"osviz/scheduler"
	"osviz/snapshot"
	"osviz/visual"
)

// SchedulingController owns the Round-Robin view. The CPU-ranked records are
// retained across reruns; scheduler.FromSnapshot rebuilds fresh process rows
// each run because the run mutates remaining burst in place.
type SchedulingController struct {
	cfg      *Config
	provider snapshot.Provider
	bridge   *engine.VisualBridge[*scheduler.Frame]
	eng      *engine.Engine
	records  []snapshot.CPUProcess
	ready    bool
}

// NewSchedulingController samples CPU usage and renders the initial table.
func NewSchedulingController(cfg *Config, provider snapshot.Provider, viz visual.Visualizer) *SchedulingController {
	c := &SchedulingController{
		cfg:      cfg,
		provider: provider,
		eng:      engine.New(nil),
	}
	c.bridge = engine.NewVisualBridge[*scheduler.Frame](viz.IsHeadless(), func(frame *scheduler.Frame) {
		viz.PublishFrame(ViewScheduling, frame)
	})
	c.setup()
	return c
}

// setup resamples the top CPU consumers. At least one usable process is
// required; the CPU measurement pass takes a priming gap, so this blocks
// briefly on live providers.
func (c *SchedulingController) setup() {
	c.eng.Reset(nil)
	c.ready = false
	c.records = c.provider.TopByCPU(c.cfg.ProcessCount)
	if len(c.records) < 1 {
		GetLogger().Warnf("scheduling: no usable processes sampled")
		c.bridge.Publish(&scheduler.Frame{
			Gantt:      []scheduler.GanttSegment{},
			ReadyQueue: []string{},
			Processes:  []scheduler.Process{},
			Message:    "Not enough processes to simulate.",
			Status:     "idle",
		})
		return
	}
	c.ready = true
	run := c.newRun()
	c.eng.Reset(run)
	frame := run.CurrentFrame()
	frame.Status = "idle"
	frame.Message = "Ready to schedule live processes."
	c.bridge.Publish(frame)
}

func (c *SchedulingController) newRun() *scheduler.Run {
	procs := scheduler.FromSnapshot(c.records)
	return scheduler.NewRun(procs, c.cfg.Quantum, c.cfg.TickDelay, c.bridge.Publish)
}

// HandleCommand applies one control command to this view.
func (c *SchedulingController) HandleCommand(kind visual.ControlCommandType) {
	switch kind {
	case visual.CommandRun:
		if !c.ready || c.eng.Active() {
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

// RunSync executes a full schedule without delays. Reports whether the view
// had enough sampled processes to run.
func (c *SchedulingController) RunSync() (*scheduler.Run, bool) {
	if !c.ready {
		return nil, false
	}
	run := c.newRun()
	c.eng.Reset(run)
	c.eng.RunSync()
	return run, true
}
