package snapshot

import (
	"sync"
	"time"
)

// Sampler runs a background worker that produces dashboard samples on a
// fixed interval. Exactly one goroutine produces and one consumes; the
// consumer polls non-blocking and treats an empty channel as "no new data
// this cycle". When the consumer lags, the freshest sample wins.
type Sampler struct {
	interval time.Duration
	sample   func() Sample
	out      chan Sample
	stop     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewSampler creates a sampler around the given sampling function.
func NewSampler(interval time.Duration, sample func() Sample) *Sampler {
	return &Sampler{
		interval: interval,
		sample:   sample,
		out:      make(chan Sample, 1),
		stop:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. Calling Start twice is a no-op.
func (s *Sampler) Start() {
	if s == nil || s.started || s.sample == nil {
		return
	}
	s.started = true
	go s.run()
}

func (s *Sampler) run() {
	for {
		sample := s.sample()
		select {
		case s.out <- sample:
		default:
			// Consumer lagging: replace the stale sample.
			select {
			case <-s.out:
			default:
			}
			select {
			case s.out <- sample:
			default:
			}
		}
		select {
		case <-time.After(s.interval):
		case <-s.stop:
			return
		}
	}
}

// TryNext returns the pending sample without blocking.
func (s *Sampler) TryNext() (Sample, bool) {
	if s == nil {
		return Sample{}, false
	}
	select {
	case sample := <-s.out:
		return sample, true
	default:
		return Sample{}, false
	}
}

// Stop terminates the worker. Idempotent.
func (s *Sampler) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() { close(s.stop) })
}
