package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/go-canerrdump/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				logSnapshot(l, metrics.Snap())
			case <-ctx.Done():
				return
			}
		}
	}()
}

func logSnapshot(l *slog.Logger, snap metrics.Snapshot) {
	l.Info("metrics_snapshot",
		"rx", snap.Rx,
		"error_frames", snap.ErrorFrames,
		"filtered", snap.Filtered,
		"ignored", snap.Ignored,
		"malformed", snap.Malformed,
		"errors", snap.Errors,
		"stream_tx", snap.StreamTx,
		"stream_drops", snap.StreamDrops,
	)
}
