package main

import (
	"context"
	"fmt"

	"osviz/engine"
	"osviz/snapshot"
	"osviz/visual"
)

// App wires the three simulation views to a visualizer and routes control
// commands to the owning controller.
type App struct {
	cfg      *Config
	provider snapshot.Provider
	viz      visual.Visualizer

	bankers    *BankersController
	deadlock   *DeadlockController
	scheduling *SchedulingController
}

// NewApp constructs the view controllers. Each controller samples its input
// and publishes its initial frame during construction.
func NewApp(cfg *Config, provider snapshot.Provider, viz visual.Visualizer) *App {
	return &App{
		cfg:        cfg,
		provider:   provider,
		viz:        viz,
		bankers:    NewBankersController(cfg, provider, viz),
		deadlock:   NewDeadlockController(cfg, provider, viz),
		scheduling: NewSchedulingController(cfg, provider, viz),
	}
}

// HandleCommand routes one control command to the view it names. Always
// returns true: a bad command is dropped, never fatal.
func (a *App) HandleCommand(cmd visual.ControlCommand) bool {
	GetLogger().Debugf("Dispatching command: view=%s type=%s", cmd.View, cmd.Type)
	switch cmd.View {
	case ViewBankers:
		a.bankers.HandleCommand(cmd.Type)
	case ViewDeadlock:
		a.deadlock.HandleCommand(cmd.Type)
	case ViewScheduling:
		a.scheduling.HandleCommand(cmd.Type)
	default:
		GetLogger().Warnf("Command for unknown view %q dropped", cmd.View)
	}
	return true
}

// Run dispatches control commands until ctx is cancelled. Simulation steps
// run on engine timers; this loop only routes commands.
func (a *App) Run(ctx context.Context) {
	loop := engine.NewCommandLoop[visual.ControlCommand](a.viz, a)
	for {
		if ctx.Err() != nil {
			return
		}
		loop.WaitAndHandle(ctx)
	}
}

// RunHeadless executes the named view (or all views) to completion without
// timers and prints the outcome.
func (a *App) RunHeadless(view string) error {
	views := []string{view}
	if view == "all" || view == "" {
		views = KnownViews
	}
	for _, v := range views {
		switch v {
		case ViewBankers:
			run, ok := a.bankers.RunSync()
			if !ok {
				return fmt.Errorf("bankers: not enough processes to simulate")
			}
			names := make([]string, 0, len(run.SafeSequence()))
			for _, idx := range run.SafeSequence() {
				names = append(names, a.bankers.state.Procs[idx].Name)
			}
			fmt.Printf("bankers: outcome=%s sequence=%v\n", run.Outcome(), names)
		case ViewDeadlock:
			run := a.deadlock.RunSync()
			fmt.Printf("deadlock: cycle=%v live=%v\n", run.Cycle(), a.deadlock.scenario.Live)
		case ViewScheduling:
			run, ok := a.scheduling.RunSync()
			if !ok {
				return fmt.Errorf("scheduling: not enough processes to simulate")
			}
			fmt.Printf("scheduling: timer=%d segments=%d\n", run.Timer(), len(run.Gantt()))
			for _, seg := range run.Gantt() {
				fmt.Printf("  %s start=%d duration=%d\n", seg.Process, seg.Start, seg.Duration)
			}
		default:
			return fmt.Errorf("unknown view %q", v)
		}
	}
	return nil
}
