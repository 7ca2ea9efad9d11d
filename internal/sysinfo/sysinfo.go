package sysinfo

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"systrack/internal/format"
	"systrack/internal/model"
)

// CollectionError means host metrics could not be read. The report that
// requested the snapshot is aborted; no partial data is returned.
type CollectionError struct {
	Cause error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("failed to collect system information: %v", e.Cause)
}

func (e *CollectionError) Unwrap() error { return e.Cause }

// Collector reads ambient host state into a SystemSnapshot. The probe
// funcs default to gopsutil and are swappable in tests.
type Collector struct {
	// RootPath is the volume measured for disk usage.
	RootPath string
	// SampleWindow is the blocking interval used to measure CPU usage.
	// A meaningful percentage needs a real window; the delay is intentional.
	SampleWindow time.Duration

	cpuPercent    func(interval time.Duration, percpu bool) ([]float64, error)
	cpuCounts     func(logical bool) (int, error)
	virtualMemory func() (*mem.VirtualMemoryStat, error)
	diskUsage     func(path string) (*disk.UsageStat, error)
	hostInfo      func() (*host.InfoStat, error)
}

// NewCollector returns a collector wired to the real host.
func NewCollector() *Collector {
	return &Collector{
		RootPath:      "/",
		SampleWindow:  time.Second,
		cpuPercent:    cpu.Percent,
		cpuCounts:     cpu.Counts,
		virtualMemory: mem.VirtualMemory,
		diskUsage:     disk.Usage,
		hostInfo:      host.Info,
	}
}

// Collect reads CPU, memory, disk and OS facts at one instant. Byte
// quantities land as gibibytes rounded to 2 decimals. Any probe failure
// aborts the whole collection with a CollectionError.
func (c *Collector) Collect() (model.SystemSnapshot, error) {
	percents, err := c.cpuPercent(c.SampleWindow, false)
	if err != nil {
		return model.SystemSnapshot{}, &CollectionError{Cause: fmt.Errorf("cpu usage: %w", err)}
	}
	cores, err := c.cpuCounts(true)
	if err != nil {
		return model.SystemSnapshot{}, &CollectionError{Cause: fmt.Errorf("cpu cores: %w", err)}
	}

	vm, err := c.virtualMemory()
	if err != nil {
		return model.SystemSnapshot{}, &CollectionError{Cause: fmt.Errorf("memory: %w", err)}
	}

	du, err := c.diskUsage(c.RootPath)
	if err != nil {
		return model.SystemSnapshot{}, &CollectionError{Cause: fmt.Errorf("disk %s: %w", c.RootPath, err)}
	}

	hi, err := c.hostInfo()
	if err != nil {
		return model.SystemSnapshot{}, &CollectionError{Cause: fmt.Errorf("host info: %w", err)}
	}

	freeGB := format.BytesToGiB(vm.Free)
	availGB := format.BytesToGiB(vm.Available)

	return model.SystemSnapshot{
		CPU: model.CPUInfo{
			UsagePercent: format.SafeFloat(percents, 0),
			CoreCount:    cores,
		},
		Memory: model.MemoryInfo{
			UsagePercent: vm.UsedPercent,
			TotalGB:      format.BytesToGiB(vm.Total),
			UsedGB:       format.BytesToGiB(vm.Used),
			FreeGB:       freeGB,
			AvailableGB:  availGB,
			// Derived from the rounded values so the identity with the
			// snapshot fields holds exactly. Negative means the host
			// reported available below free; kept as is.
			CachedGB: format.Round2(availGB - freeGB),
		},
		Disk: model.DiskInfo{
			UsagePercent: du.UsedPercent,
			TotalGB:      format.BytesToGiB(du.Total),
			UsedGB:       format.BytesToGiB(du.Used),
			FreeGB:       format.BytesToGiB(du.Free),
		},
		OS: model.OSInfo{
			Name:     hi.Platform,
			Version:  hi.KernelVersion,
			Release:  hi.PlatformVersion,
			Platform: fmt.Sprintf("%s-%s-%s", hi.Platform, hi.PlatformVersion, hi.KernelArch),
		},
	}, nil
}
