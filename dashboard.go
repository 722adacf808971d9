package main

import (
	"context"
	"sync"
	"time"

	"osviz/predict"
	"osviz/snapshot"
)

// Dashboard owns the live process table and the usage histories feeding the
// prediction view. A background sampler produces readings on a fixed
// interval; a poll loop drains them, so a slow consumer only ever skips to
// the freshest sample.
type Dashboard struct {
	cfg     *Config
	sampler *snapshot.Sampler

	mu         sync.RWMutex
	latest     snapshot.Sample
	haveSample bool
	cpuHistory []float64
	memHistory []float64
}

// NewDashboard wires a dashboard to the given sampling function (live or
// canned).
func NewDashboard(cfg *Config, sample func() snapshot.Sample) *Dashboard {
	return &Dashboard{
		cfg:     cfg,
		sampler: snapshot.NewSampler(cfg.SampleInterval, sample),
	}
}

// Start launches the sampling worker and the poll loop. The loop exits when
// ctx is cancelled.
func (d *Dashboard) Start(ctx context.Context) {
	d.sampler.Start()
	go d.poll(ctx)
}

func (d *Dashboard) poll(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.sampler.Stop()
			return
		case <-ticker.C:
			if sample, ok := d.sampler.TryNext(); ok {
				d.record(sample)
			}
		}
	}
}

func (d *Dashboard) record(sample snapshot.Sample) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest = sample
	d.haveSample = true
	d.cpuHistory = appendCapped(d.cpuHistory, sample.TotalCPU, d.cfg.HistoryLimit)
	d.memHistory = appendCapped(d.memHistory, sample.TotalMem, d.cfg.HistoryLimit)
}

// appendCapped appends v, discarding the oldest entry past the limit.
func appendCapped(history []float64, v float64, limit int) []float64 {
	history = append(history, v)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

// Latest returns the most recent sample, false before the first reading.
func (d *Dashboard) Latest() (snapshot.Sample, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest, d.haveSample
}

// Histories returns copies of the CPU and memory usage histories.
func (d *Dashboard) Histories() (cpu, mem []float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cpu = append([]float64(nil), d.cpuHistory...)
	mem = append([]float64(nil), d.memHistory...)
	return cpu, mem
}

// PredictionReport is the trend payload for both tracked metrics.
type PredictionReport struct {
	CPU *MetricTrend `json:"cpu,omitempty"`
	Mem *MetricTrend `json:"mem,omitempty"`
}

// MetricTrend carries one fitted trend plus the history it was fitted on.
type MetricTrend struct {
	History []float64 `json:"history"`
	Line    []float64 `json:"line"`
	Next    float64   `json:"next"`
	Slope   float64   `json:"slope"`
}

// Prediction fits linear trends over the recorded histories. Metrics with
// fewer than two points are omitted rather than failing the whole report.
func (d *Dashboard) Prediction() PredictionReport {
	cpuHist, memHist := d.Histories()
	report := PredictionReport{}
	if trend, ok := predict.Fit(cpuHist, predict.DefaultHorizon); ok {
		report.CPU = &MetricTrend{History: cpuHist, Line: trend.Line, Next: trend.Next, Slope: trend.Slope}
	}
	if trend, ok := predict.Fit(memHist, predict.DefaultHorizon); ok {
		report.Mem = &MetricTrend{History: memHist, Line: trend.Line, Next: trend.Next, Slope: trend.Slope}
	}
	return report
}
