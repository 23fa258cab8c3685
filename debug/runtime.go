package debug

// Runtime logger started in debug mode. Emits goroutine count, heap, stack
// and process RSS next to the detector counters so growth can be correlated
// with detection activity.

import (
	"context"
	"log/slog"
	"runtime"
	rtmetrics "runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/result-watch-go/metrics"
)

// StartRuntimeLogger logs runtime and detector stats every interval until ctx
// is done. m may be nil.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []rtmetrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			rtmetrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.String("heap_alloc_h", humanize.IBytes(ms.HeapAlloc)),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			}
			if rss, err := processRSS(); err == nil {
				attrs = append(attrs, slog.Uint64("rss", rss), slog.String("rss_h", humanize.IBytes(rss)))
			} else if !rssErrLogged {
				logger.Warn("runtime: rss unavailable", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			if m != nil {
				attrs = append(attrs,
					slog.Uint64("ticks", m.Ticks.Load()),
					slog.Uint64("capture_errors", m.CaptureErrors.Load()),
					slog.Uint64("events", m.SuccessEvents.Load()+m.FailEvents.Load()),
				)
			}
			logger.Info("runtime", attrs...)
		}
	}()
}
