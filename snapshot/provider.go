// Package snapshot converts live host telemetry into algorithm input
// records. All lookups are best-effort: processes that vanish or deny
// access between enumeration and inspection are skipped silently.
package snapshot

import "time"

// MemProcess is an immutable snapshot of one process ranked by memory.
// RSS and VMS are in bytes.
type MemProcess struct {
	Name string
	PID  int32
	RSS  uint64
	VMS  uint64
}

// CPUProcess is an immutable snapshot of one process ranked by CPU usage.
type CPUProcess struct {
	Name       string
	PID        int32
	CPUPercent float64
}

// DashboardRow is one aggregated row of the live process table. Processes
// are grouped by normalized executable name; CPUPercent is normalized by
// the host core count.
type DashboardRow struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	CPUPercent float64 `json:"cpuPercent"`
	MemoryMB   float64 `json:"memoryMB"`
	Threads    int     `json:"threads"`
}

// Sample is one dashboard reading handed from the sampling worker to the
// rendering side.
type Sample struct {
	Rows      []DashboardRow `json:"rows"`
	TotalCPU  float64        `json:"totalCpu"`
	TotalMem  float64        `json:"totalMem"`
	SampledAt time.Time      `json:"sampledAt"`
}

// Provider supplies algorithm input snapshots from the host.
type Provider interface {
	// TopByMemory returns up to n processes ordered by resident size,
	// largest first.
	TopByMemory(n int) []MemProcess
	// TopByCPU returns up to n processes ordered by CPU usage, highest
	// first. Implementations take two time-separated readings; an
	// instantaneous-only reading is meaningless.
	TopByCPU(n int) []CPUProcess
	// AvailableMemoryMB returns currently available system memory in MB.
	AvailableMemoryMB() int
	// OpenResourceName returns a representative open file name for the
	// process, best-effort.
	OpenResourceName(pid int32) (string, bool)
}
