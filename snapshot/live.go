package snapshot

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// cpuSampleGap separates the two readings needed for a valid CPU percentage.
const cpuSampleGap = 200 * time.Millisecond

var resourceExtensions = []string{".log", ".db", ".txt", ".dat"}

var systemPathPrefixes = []string{"/proc", "/sys", "/dev", "/run", "/usr/lib", "/lib"}

// Live implements Provider on top of host telemetry.
type Live struct{}

// NewLive creates a live snapshot provider.
func NewLive() *Live {
	return &Live{}
}

func (l *Live) TopByMemory(n int) []MemProcess {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}
	records := make([]MemProcess, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		info, err := p.MemoryInfo()
		if err != nil || info == nil || info.RSS == 0 {
			continue
		}
		records = append(records, MemProcess{
			Name: name,
			PID:  p.Pid,
			RSS:  info.RSS,
			VMS:  info.VMS,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RSS > records[j].RSS
	})
	if len(records) > n {
		records = records[:n]
	}
	return records
}

func (l *Live) TopByCPU(n int) []CPUProcess {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}
	// Prime per-process counters, then read the delta after a short gap.
	for _, p := range procs {
		p.CPUPercent()
	}
	time.Sleep(cpuSampleGap)
	records := make([]CPUProcess, 0, len(procs))
	for _, p := range procs {
		usage, err := p.CPUPercent()
		if err != nil || usage <= 0 {
			continue
		}
		name, err := p.Name()
		if err != nil {
			continue
		}
		records = append(records, CPUProcess{
			Name:       name,
			PID:        p.Pid,
			CPUPercent: usage,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CPUPercent > records[j].CPUPercent
	})
	if len(records) > n {
		records = records[:n]
	}
	return records
}

func (l *Live) AvailableMemoryMB() int {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return 0
	}
	return int(vm.Available / (1024 * 1024))
}

func (l *Live) OpenResourceName(pid int32) (string, bool) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", false
	}
	files, err := p.OpenFiles()
	if err != nil {
		return "", false
	}
	fallback := ""
	for _, f := range files {
		if isSystemPath(f.Path) {
			continue
		}
		if hasResourceExtension(f.Path) {
			return filepath.Base(f.Path), true
		}
		if fallback == "" {
			fallback = filepath.Base(f.Path)
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

func hasResourceExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range resourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isSystemPath(path string) bool {
	for _, prefix := range systemPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// DashboardSample aggregates the full process table for one dashboard
// refresh: rows grouped by normalized name, CPU normalized by core count.
func (l *Live) DashboardSample() Sample {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = 1
	}
	groups := make(map[string]*DashboardRow)
	procs, err := process.Processes()
	if err != nil {
		procs = nil
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		display := normalizeName(name)
		if display == "" {
			continue
		}
		usage, err := p.CPUPercent()
		if err != nil {
			usage = 0
		}
		var rss uint64
		if info, err := p.MemoryInfo(); err == nil && info != nil {
			rss = info.RSS
		}
		threads := 0
		if n, err := p.NumThreads(); err == nil {
			threads = int(n)
		}
		row, ok := groups[display]
		if !ok {
			row = &DashboardRow{Name: display}
			groups[display] = row
		}
		row.Count++
		row.CPUPercent += usage / float64(cores)
		row.MemoryMB += float64(rss) / (1024 * 1024)
		row.Threads += threads
	}

	rows := make([]DashboardRow, 0, len(groups))
	for _, row := range groups {
		if row.CPUPercent > 100 {
			row.CPUPercent = 100
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].MemoryMB > rows[j].MemoryMB })

	totalCPU := 0.0
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		totalCPU = percents[0]
	}
	totalMem := 0.0
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		totalMem = vm.UsedPercent
	}
	return Sample{
		Rows:      rows,
		TotalCPU:  totalCPU,
		TotalMem:  totalMem,
		SampledAt: time.Now(),
	}
}

// normalizeName groups executable variants: extension stripped, dashes
// spaced, words title-cased ("web-server.exe" -> "Web Server").
func normalizeName(name string) string {
	base := name
	if idx := strings.IndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	base = strings.ReplaceAll(base, "-", " ")
	words := strings.Fields(base)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
