package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ganesh9880/termipy/internal/shared/format"
)

// MemoryStats is the memory summary exposed over the web API.
type MemoryStats struct {
	Total   string  `json:"total"`
	Used    string  `json:"used"`
	Percent float64 `json:"percent"`
}

// CPUStats is the CPU summary exposed over the web API.
type CPUStats struct {
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// Snapshot is a point-in-time system summary for /system_info and the
// stats websocket.
type Snapshot struct {
	Memory    MemoryStats `json:"memory"`
	CPU       CPUStats    `json:"cpu"`
	Timestamp time.Time   `json:"timestamp"`
}

// Sample collects one snapshot. The CPU percent uses a short bounded
// sampling window, so Sample blocks for cpuSampleInterval.
func Sample(ctx context.Context) (*Snapshot, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	percents, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return nil, err
	}
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Memory: MemoryStats{
			Total:   format.Size(vm.Total),
			Used:    format.Size(vm.Used),
			Percent: vm.UsedPercent,
		},
		CPU:       CPUStats{Count: count},
		Timestamp: time.Now().UTC(),
	}
	if len(percents) > 0 {
		snap.CPU.Percent = percents[0]
	}
	return snap, nil
}
