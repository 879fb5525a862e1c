package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/kstaniek/go-canerrdump/internal/canerr"
	"github.com/kstaniek/go-canerrdump/internal/dump"
	"github.com/kstaniek/go-canerrdump/internal/logging"
	"github.com/kstaniek/go-canerrdump/internal/metrics"
)

// Process exit codes.
const (
	exitOK           = 0
	exitConnectivity = 1
	exitConfig       = 2
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		logging.L().Info("shutdown_signal", "signal", s.String())
		cancel()
	}()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one dump session and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		printUsage(stdout, newFlagSet(&appConfig{}, stdout))
		return exitOK
	default:
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(stderr, "Error: %s\n", line)
		}
		return exitConfig
	}
	if cfg.showVersion {
		fmt.Fprintf(stdout, "canerrdump %s (commit %s, built %s)\n", version, commit, date)
		return exitOK
	}

	l := setupLogger(cfg.logFormat, cfg.logLevel, stderr)
	l.Info("CAN Sockets Error Messages Dumper", "version", version, "commit", commit)
	if cfg.opts.ShowBits {
		if err := dump.PrintMask(stdout, cfg.opts.Mask); err != nil {
			l.Error("output_error", "error", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitConnectivity
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	src, opts, err := openBackend(cfg, l)
	if err != nil {
		l.Error("backend_init_error", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errBackendOpen) {
			return exitConnectivity
		}
		return exitConfig
	}
	defer func() { _ = src.Close() }()

	var out io.Writer = stdout
	streamAddr := ""
	failed := &streamFailure{cancel: cancel}
	metrics.SetErrorMask(uint32(cfg.opts.Mask))
	if cfg.listenAddr != "" {
		h := initHub(cfg, l)
		srv, stop := startStream(ctx, cfg, h, l, failed)
		select {
		case <-srv.Ready():
		case err := <-srv.Errors():
			fmt.Fprintf(stderr, "Error: stream %v\n", err)
			return exitConnectivity
		}
		defer stop()
		streamAddr = srv.Addr()
		out = io.MultiWriter(stdout, h)
	}
	metrics.SetReadinessFunc(func() bool { return ctx.Err() == nil })
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date, canerr.ClassNames())
		srvHTTP := metrics.StartHTTP(cfg.metricsAddr)
		defer func() { _ = srvHTTP.Shutdown(context.Background()) }()
	}
	cleanupMDNS, err := startMDNS(ctx, cfg, streamAddr)
	if err != nil {
		l.Warn("mdns_start_failed", "error", err)
	} else {
		if cfg.mdnsEnable {
			l.Info("mdns_started", "service", mdnsServiceType, "name", cfg.mdnsName)
		}
		defer cleanupMDNS()
	}

	l.Info(fmt.Sprintf("Listening CAN bus %s for errors...", cfg.iface),
		"backend", cfg.backend, "mask", fmt.Sprintf("0x%08X", uint32(cfg.opts.Mask)))
	opts = append(opts, dump.WithLogger(l))
	if err := dump.New(src, out, opts...).Run(ctx); err != nil {
		l.Error("dump_error", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConnectivity
	}
	if err := failed.Err(); err != nil {
		fmt.Fprintf(stderr, "Error: stream %v\n", err)
		return exitConnectivity
	}
	l.Info("shutdown")
	return exitOK
}
