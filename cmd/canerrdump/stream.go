package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/go-canerrdump/internal/hub"
	"github.com/kstaniek/go-canerrdump/internal/server"
)

// initHub builds the line fan-out for stream clients.
func initHub(cfg *appConfig, l *slog.Logger) *hub.Hub {
	h := hub.New()
	h.OutBufSize = cfg.streamBuffer
	p, err := hub.ParsePolicy(cfg.streamPolicy)
	if err != nil {
		l.Warn("unknown_stream_policy", "policy", cfg.streamPolicy, "used", "drop")
	}
	h.Policy = p
	l.Info("stream_config", "policy", cfg.streamPolicy, "buffer", h.OutBufSize, "max_clients", cfg.maxClients)
	return h
}

// serveStream runs the stream server until ctx ends; tests replace it.
var serveStream = func(ctx context.Context, srv *server.Server) error { return srv.Serve(ctx) }

// streamFailure records the first fatal stream error and stops the session.
type streamFailure struct {
	once   sync.Once
	mu     sync.Mutex
	err    error
	cancel context.CancelFunc
}

func (f *streamFailure) fail(err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
		f.cancel()
	})
}

func (f *streamFailure) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// startStream serves decoded lines on cfg.listenAddr. It returns the server
// (for readiness and the bound address) and a shutdown func.
func startStream(ctx context.Context, cfg *appConfig, h *hub.Hub, l *slog.Logger, failed *streamFailure) (*server.Server, func()) {
	srv := server.NewServer(
		server.WithHub(h),
		server.WithListenAddr(cfg.listenAddr),
		server.WithMaxClients(cfg.maxClients),
		server.WithGreeting(fmt.Sprintf("# canerrdump %s if=%s mask=0x%08X", version, cfg.iface, uint32(cfg.opts.Mask))),
		server.WithLogger(l),
	)
	go func() {
		if err := serveStream(ctx, srv); err != nil {
			l.Error("stream_server_error", "error", err)
			failed.fail(err)
		}
	}()
	return srv, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Warn("stream_shutdown", "error", err)
		}
	}
}
