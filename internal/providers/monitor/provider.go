// Package monitor implements the system monitoring commands on top of
// gopsutil, replacing shell-outs to ps/free/df with portable process and
// resource queries.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ganesh9880/termipy/internal/shared/format"
	"github.com/ganesh9880/termipy/internal/shell"
)

// cpuSampleInterval bounds the blocking window of cpu percent sampling so a
// dispatch never stalls for longer than this plus syscall overhead.
const cpuSampleInterval = 500 * time.Millisecond

// Provider bundles the monitoring command set.
type Provider struct{}

// New creates the monitoring provider.
func New() *Provider {
	return &Provider{}
}

// Commands returns the command table for registration.
func (p *Provider) Commands() []shell.Command {
	return []shell.Command{
		{
			Name:        "ps",
			Description: "List running processes",
			Usage:       "ps",
			Handler:     p.ps,
		},
		{
			Name:        "top",
			Description: "Show top processes by CPU usage",
			Usage:       "top",
			Handler:     p.top,
		},
		{
			Name:        "mem",
			Description: "Show memory usage",
			Usage:       "mem",
			Handler:     p.mem,
		},
		{
			Name:        "cpu",
			Description: "Show CPU usage",
			Usage:       "cpu",
			Handler:     p.cpu,
		},
		{
			Name:        "df",
			Description: "Show disk usage",
			Usage:       "df",
			Handler:     p.df,
		},
	}
}

type procSample struct {
	pid  int32
	name string
	cpu  float64
	mem  float32
}

func sampleProcesses(ctx context.Context) ([]procSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot list processes", err)
	}

	samples := make([]procSample, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue // process exited or access denied
		}
		cpuPct, _ := proc.CPUPercentWithContext(ctx)
		memPct, _ := proc.MemoryPercentWithContext(ctx)
		samples = append(samples, procSample{pid: proc.Pid, name: name, cpu: cpuPct, mem: memPct})
	}
	return samples, nil
}

func procHeader() string {
	return fmt.Sprintf("%6s %-20s %6s %6s", "PID", "NAME", "CPU%", "MEM%")
}

func (s procSample) line() string {
	name := s.name
	if len(name) > 20 {
		name = name[:20]
	}
	return fmt.Sprintf("%6d %-20s %5.1f%% %5.1f%%", s.pid, name, s.cpu, s.mem)
}

func (p *Provider) ps(ctx context.Context, req shell.Request) (*shell.Result, error) {
	samples, err := sampleProcesses(ctx)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return &shell.Result{Stdout: "No processes found"}, nil
	}

	lines := []string{procHeader()}
	for i, s := range samples {
		if i == 20 {
			break
		}
		lines = append(lines, s.line())
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) top(ctx context.Context, req shell.Request) (*shell.Result, error) {
	samples, err := sampleProcesses(ctx)
	if err != nil {
		return nil, err
	}

	active := samples[:0]
	for _, s := range samples {
		if s.cpu > 0 {
			active = append(active, s)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].cpu > active[j].cpu })

	lines := []string{procHeader()}
	for i, s := range active {
		if i == 10 {
			break
		}
		lines = append(lines, s.line())
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) mem(ctx context.Context, req shell.Request) (*shell.Result, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot read memory stats", err)
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot read swap stats", err)
	}

	lines := []string{
		"Memory Usage:",
		"  Total: " + format.Size(vm.Total),
		"  Available: " + format.Size(vm.Available),
		fmt.Sprintf("  Used: %s (%.1f%%)", format.Size(vm.Used), vm.UsedPercent),
		"  Free: " + format.Size(vm.Free),
		"",
		"Swap Usage:",
		"  Total: " + format.Size(swap.Total),
		fmt.Sprintf("  Used: %s (%.1f%%)", format.Size(swap.Used), swap.UsedPercent),
		"  Free: " + format.Size(swap.Free),
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) cpu(ctx context.Context, req shell.Request) (*shell.Result, error) {
	percents, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil || len(percents) == 0 {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot sample cpu usage", err)
	}
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot count cpus", err)
	}

	freq := "CPU Frequency: N/A"
	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 && info[0].Mhz > 0 {
		freq = fmt.Sprintf("CPU Frequency: %.0f MHz", info[0].Mhz)
	}

	lines := []string{
		fmt.Sprintf("CPU Usage: %.1f%%", percents[0]),
		fmt.Sprintf("CPU Cores: %d", count),
		freq,
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}

func (p *Provider) df(ctx context.Context, req shell.Request) (*shell.Result, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, shell.Wrap(shell.KindIOFailure, "cannot list partitions", err)
	}

	lines := []string{"Filesystem Usage:"}
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-20s %8s %8s %8s %4.1f%% %s",
			part.Device,
			format.Size(usage.Total),
			format.Size(usage.Used),
			format.Size(usage.Free),
			usage.UsedPercent,
			part.Mountpoint,
		))
	}
	return &shell.Result{Stdout: strings.Join(lines, "\n")}, nil
}
