// Package observability exposes process-level self stats for the health surface.
package observability

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is one snapshot of the relay's own resource usage.
type ProcessStats struct {
	RSSMb      float64 `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
	UptimeSec  int64   `json:"uptime_sec"`
}

// ProcessMonitor reads the current process through gopsutil.
type ProcessMonitor struct {
	proc    *process.Process
	started time.Time
}

func NewProcessMonitor() (*ProcessMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMonitor{proc: p, started: time.Now()}, nil
}

// Stats returns a best-effort snapshot: unreadable fields stay zero rather
// than failing the health endpoint.
func (m *ProcessMonitor) Stats() ProcessStats {
	stats := ProcessStats{
		Goroutines: runtime.NumGoroutine(),
		UptimeSec:  int64(time.Since(m.started).Seconds()),
	}
	if mem, err := m.proc.MemoryInfo(); err == nil {
		stats.RSSMb = float64(mem.RSS) / (1024 * 1024)
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
