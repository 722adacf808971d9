package snapshot

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSamplerProducesAndStops(t *testing.T) {
	var produced atomic.Int64
	s := NewSampler(time.Millisecond, func() Sample {
		produced.Add(1)
		return Sample{TotalCPU: float64(produced.Load())}
	})
	s.Start()

	deadline := time.Now().Add(time.Second)
	var got Sample
	ok := false
	for time.Now().Before(deadline) {
		if got, ok = s.TryNext(); ok {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !ok {
		t.Fatalf("no sample produced before deadline")
	}
	if got.TotalCPU <= 0 {
		t.Fatalf("unexpected sample payload: %+v", got)
	}

	s.Stop()
	s.Stop() // idempotent
	at := produced.Load()
	time.Sleep(20 * time.Millisecond)
	if produced.Load() > at+1 {
		t.Fatalf("worker kept producing after stop")
	}
}

func TestSamplerTryNextNeverBlocks(t *testing.T) {
	s := NewSampler(time.Hour, func() Sample { return Sample{} })
	// Worker not started: empty channel means "no new data this cycle".
	if _, ok := s.TryNext(); ok {
		t.Fatalf("expected no sample from idle sampler")
	}
}

func TestSamplerKeepsFreshestWhenConsumerLags(t *testing.T) {
	var n atomic.Int64
	s := NewSampler(time.Millisecond, func() Sample {
		return Sample{TotalCPU: float64(n.Add(1))}
	})
	s.Start()
	defer s.Stop()

	time.Sleep(30 * time.Millisecond)
	sample, ok := s.TryNext()
	if !ok {
		t.Fatalf("expected a pending sample")
	}
	if sample.TotalCPU < 2 {
		t.Fatalf("expected a later sample to have replaced the first, got %v", sample.TotalCPU)
	}
}

func TestFakeProviderOrdering(t *testing.T) {
	f := NewFake()
	mem := f.TopByMemory(3)
	if len(mem) != 3 {
		t.Fatalf("expected 3 records, got %d", len(mem))
	}
	for i := 1; i < len(mem); i++ {
		if mem[i].RSS > mem[i-1].RSS {
			t.Fatalf("memory ordering broken at %d", i)
		}
	}
	cpu := f.TopByCPU(10)
	for i := 1; i < len(cpu); i++ {
		if cpu[i].CPUPercent > cpu[i-1].CPUPercent {
			t.Fatalf("cpu ordering broken at %d", i)
		}
	}
	if _, ok := f.OpenResourceName(9999); ok {
		t.Fatalf("unknown pid should have no resource")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"web-server.exe": "Web Server",
		"chrome":         "Chrome",
		"my daemon":      "My Daemon",
	}
	for in, want := range cases {
		if got := normalizeName(in); got != want {
			t.Fatalf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
