package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// View names, used for command routing and frame envelopes.
const (
	ViewBankers    = "bankers"
	ViewDeadlock   = "deadlock"
	ViewScheduling = "scheduling"
)

// KnownViews lists the simulation views in navigation order.
var KnownViews = []string{ViewBankers, ViewDeadlock, ViewScheduling}

// Simulation constants
const (
	// DefaultStepDelay paces the algorithm views (bankers, deadlock).
	DefaultStepDelay = 1500 * time.Millisecond

	// DefaultTickDelay paces the scheduler simulation.
	DefaultTickDelay = 1 * time.Second

	// DefaultSampleInterval is the dashboard worker sampling period.
	DefaultSampleInterval = 2 * time.Second

	// DefaultPollInterval is how often the rendering side drains the
	// sampler queue.
	DefaultPollInterval = 200 * time.Millisecond

	// DefaultHistoryLimit caps the CPU/memory history kept for the
	// prediction view.
	DefaultHistoryLimit = 100

	// DefaultProcessCount is how many live processes each algorithm view
	// samples.
	DefaultProcessCount = 5

	// ConfigHashLength is the hex length of the topology hash on frames.
	ConfigHashLength = 16
)

// Config holds runtime configuration values.
type Config struct {
	Addr     string
	Headless bool

	ProcessCount int
	Quantum      int

	StepDelay      time.Duration
	TickDelay      time.Duration
	SampleInterval time.Duration
	PollInterval   time.Duration
	HistoryLimit   int
}

// DefaultConfig returns the configuration the original desktop tool shipped
// with.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:8080",
		ProcessCount:   DefaultProcessCount,
		Quantum:        2,
		StepDelay:      DefaultStepDelay,
		TickDelay:      DefaultTickDelay,
		SampleInterval: DefaultSampleInterval,
		PollInterval:   DefaultPollInterval,
		HistoryLimit:   DefaultHistoryLimit,
	}
}

// Validate rejects configurations the simulations cannot run under.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.ProcessCount <= 0 {
		return errors.New("ProcessCount must be positive")
	}
	if c.Quantum <= 0 {
		return errors.New("Quantum must be positive")
	}
	if c.StepDelay <= 0 || c.TickDelay <= 0 {
		return errors.New("step and tick delays must be positive")
	}
	if c.SampleInterval <= 0 || c.PollInterval <= 0 {
		return errors.New("sampling intervals must be positive")
	}
	if c.HistoryLimit <= 0 {
		return errors.New("HistoryLimit must be positive")
	}
	return nil
}

// computeConfigHash hashes the fields that affect what clients render, so a
// frontend can detect configuration changes across reconnects.
func computeConfigHash(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	hashInput := fmt.Sprintf("%d-%d-%d-%d-%d",
		cfg.ProcessCount,
		cfg.Quantum,
		cfg.StepDelay.Milliseconds(),
		cfg.TickDelay.Milliseconds(),
		cfg.HistoryLimit)
	hash := sha256.Sum256([]byte(hashInput))
	return hex.EncodeToString(hash[:])[:ConfigHashLength]
}
