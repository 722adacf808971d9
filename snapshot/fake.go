package snapshot

import "time"

// Fake is a canned Provider for tests and demonstration runs without
// telemetry access.
type Fake struct {
	MemProcesses  []MemProcess
	CPUProcesses  []CPUProcess
	AvailableMB   int
	ResourceNames map[int32]string
}

// NewFake returns a provider with a plausible default process set.
func NewFake() *Fake {
	const mb = 1024 * 1024
	return &Fake{
		MemProcesses: []MemProcess{
			{Name: "browser", PID: 1001, RSS: 900 * mb, VMS: 2100 * mb},
			{Name: "editor", PID: 1002, RSS: 450 * mb, VMS: 1200 * mb},
			{Name: "compiler", PID: 1003, RSS: 300 * mb, VMS: 800 * mb},
			{Name: "terminal", PID: 1004, RSS: 120 * mb, VMS: 400 * mb},
			{Name: "daemon", PID: 1005, RSS: 80 * mb, VMS: 200 * mb},
		},
		CPUProcesses: []CPUProcess{
			{Name: "compiler", PID: 1003, CPUPercent: 42.0},
			{Name: "browser", PID: 1001, CPUPercent: 18.5},
			{Name: "editor", PID: 1002, CPUPercent: 6.2},
			{Name: "daemon", PID: 1005, CPUPercent: 1.1},
		},
		AvailableMB: 4096,
		ResourceNames: map[int32]string{
			1001: "profile.db",
			1002: "session.log",
		},
	}
}

func (f *Fake) TopByMemory(n int) []MemProcess {
	if n > len(f.MemProcesses) {
		n = len(f.MemProcesses)
	}
	out := make([]MemProcess, n)
	copy(out, f.MemProcesses[:n])
	return out
}

func (f *Fake) TopByCPU(n int) []CPUProcess {
	if n > len(f.CPUProcesses) {
		n = len(f.CPUProcesses)
	}
	out := make([]CPUProcess, n)
	copy(out, f.CPUProcesses[:n])
	return out
}

func (f *Fake) AvailableMemoryMB() int {
	return f.AvailableMB
}

func (f *Fake) OpenResourceName(pid int32) (string, bool) {
	name, ok := f.ResourceNames[pid]
	return name, ok
}

// DashboardSample synthesizes a dashboard reading from the canned process
// set, one row per memory record.
func (f *Fake) DashboardSample() Sample {
	cpuByPID := make(map[int32]float64, len(f.CPUProcesses))
	for _, p := range f.CPUProcesses {
		cpuByPID[p.PID] = p.CPUPercent
	}
	rows := make([]DashboardRow, 0, len(f.MemProcesses))
	totalCPU := 0.0
	for _, p := range f.MemProcesses {
		usage := cpuByPID[p.PID]
		totalCPU += usage
		rows = append(rows, DashboardRow{
			Name:       normalizeName(p.Name),
			Count:      1,
			CPUPercent: usage,
			MemoryMB:   float64(p.RSS) / (1024 * 1024),
			Threads:    4,
		})
	}
	if totalCPU > 100 {
		totalCPU = 100
	}
	return Sample{
		Rows:      rows,
		TotalCPU:  totalCPU,
		TotalMem:  55.0,
		SampledAt: time.Now(),
	}
}
