package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfPollInterval = 30 * time.Second

var meter = otel.Meter("go.perf_stats")

var (
	cpuGauge, _       = meter.Float64Gauge("process.cpu_percent")
	heapGauge, _      = meter.Int64Gauge("runtime.heap_alloc_mb")
	liveGauge, _      = meter.Int64Gauge("runtime.live_objects")
	goroutineGauge, _ = meter.Int64Gauge("runtime.goroutines")
)

// InstrumentPerfStats samples process health into otel gauges every 30
// seconds until ctx is canceled.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		// cpu.Percent with no interval diffs against the previous
		// call, so prime it once and discard the first reading.
		_, _ = cpu.Percent(0, false)

		ticker := time.NewTicker(perfPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				recordPerfSample(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func recordPerfSample(ctx context.Context) {
	usage, err := cpu.Percent(0, false)
	if err != nil || len(usage) == 0 {
		slog.Warn("failed to read cpu usage", "err", err)
	} else {
		cpuGauge.Record(ctx, usage[0])
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	heapGauge.Record(ctx, int64(memStats.HeapAlloc/1_000_000))
	liveGauge.Record(ctx, int64(memStats.Mallocs-memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
}
