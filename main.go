package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"osviz/snapshot"
	"osviz/visual"
)

func main() {
	var addr = flag.String("addr", "127.0.0.1:8080", "HTTP listen address")
	var headless = flag.Bool("headless", false, "Run a simulation to completion and exit (no server)")
	var view = flag.String("view", "all", "View to run in headless mode (bankers|deadlock|scheduling|all)")
	var fake = flag.Bool("fake", false, "Use canned process data instead of host telemetry")
	var logLevel = flag.String("log-level", "info", "Log level (error|warn|info|debug)")
	flag.Parse()

	GetLogger().SetLevel(ParseLogLevel(*logLevel))

	cfg := DefaultConfig()
	cfg.Addr = *addr
	cfg.Headless = *headless
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var provider snapshot.Provider
	var sample func() snapshot.Sample
	if *fake {
		f := snapshot.NewFake()
		provider = f
		sample = f.DashboardSample
	} else {
		l := snapshot.NewLive()
		provider = l
		sample = l.DashboardSample
	}

	if *headless {
		viz := visual.NewNullVisualizer()
		app := NewApp(cfg, provider, viz)
		if err := app.RunHeadless(*view); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dashboard := NewDashboard(cfg, sample)
	dashboard.Start(ctx)

	server := NewWebServer(cfg, dashboard)
	server.Start()

	viz := NewWebVisualizer(server)
	app := NewApp(cfg, provider, viz)
	app.Run(ctx)

	if err := server.Shutdown(context.Background()); err != nil {
		GetLogger().Warnf("Shutdown error: %v", err)
	}
}
