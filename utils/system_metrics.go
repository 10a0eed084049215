package utils

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemUsage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// GetSystemUsage samples CPU over a short interval; failures degrade to zero values.
func GetSystemUsage(ctx context.Context) SystemUsage {
	var usage SystemUsage

	percentage, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		Logger.Warn().Err(err).Msg("failed to read CPU usage")
	} else if len(percentage) > 0 {
		usage.CPUPercent = percentage[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		Logger.Warn().Err(err).Msg("failed to read memory usage")
	} else {
		usage.MemoryPercent = vm.UsedPercent
	}

	return usage
}
