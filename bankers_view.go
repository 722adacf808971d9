package main

import (
	"osviz/bankers"
	"osviz/engine"
	"osviz/snapshot"
	"osviz/visual"
)

// BankersController owns the Banker's-algorithm view: it derives the input
// matrices from live memory records, drives the safety algorithm through
// the step engine, and pushes matrix frames to the visualizer.
type BankersController struct {
	cfg      *Config
	provider snapshot.Provider
	bridge   *engine.VisualBridge[*bankers.Frame]
	eng      *engine.Engine
	state    *bankers.State
	ready    bool
}

// NewBankersController loads live data and renders the initial state.
func NewBankersController(cfg *Config, provider snapshot.Provider, viz visual.Visualizer) *BankersController {
	c := &BankersController{
		cfg:      cfg,
		provider: provider,
		eng:      engine.New(nil),
	}
	c.bridge = engine.NewVisualBridge[*bankers.Frame](viz.IsHeadless(), func(frame *bankers.Frame) {
		viz.PublishFrame(ViewBankers, frame)
	})
	c.setup()
	return c
}

// setup reloads live processes and rebuilds the initial algorithm state.
// Fewer than two usable processes is a user-visible status, not an error:
// controls stay enabled and the simulation simply does not start.
func (c *BankersController) setup() {
	c.eng.Reset(nil)
	c.ready = false
	c.state = nil

	records := c.provider.TopByMemory(c.cfg.ProcessCount)
	if len(records) < 2 {
		GetLogger().Warnf("bankers: only %d usable processes, need 2", len(records))
		c.bridge.Publish(&bankers.Frame{
			HighlightRow: -1,
			Message:      "Not enough processes to simulate.",
			Status:       "idle",
		})
		return
	}
	state, err := bankers.FromSnapshot(records, c.provider.AvailableMemoryMB())
	if err != nil {
		GetLogger().Errorf("bankers: state derivation failed: %v", err)
		c.bridge.Publish(&bankers.Frame{
			HighlightRow: -1,
			Message:      "Could not derive simulation state from live data.",
			Status:       "idle",
		})
		return
	}
	c.state = state
	c.ready = true
	run := c.newRun()
	c.eng.Reset(run)
	c.bridge.Publish(run.CurrentFrame("Ready to run safety algorithm on live processes."))
}

func (c *BankersController) newRun() *bankers.Run {
	return bankers.NewRun(c.state, c.cfg.StepDelay, c.bridge.Publish)
}

// HandleCommand applies one control command to this view.
func (c *BankersController) HandleCommand(kind visual.ControlCommandType) {
	switch kind {
	case visual.CommandRun:
		if !c.ready || c.eng.Active() {
			return
		}
		// A rerun restarts the algorithm over the same live snapshot.
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

// RunSync executes the current run to completion without delays
// (headless mode and tests). Reports whether a run was available.
func (c *BankersController) RunSync() (*bankers.Run, bool) {
	if !c.ready || c.eng.Active() {
		return nil, false
	}
	run := c.newRun()
	c.eng.Reset(run)
	c.eng.RunSync()
	return run, true
}
