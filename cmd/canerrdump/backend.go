package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kstaniek/go-canerrdump/internal/dump"
	"github.com/kstaniek/go-canerrdump/internal/metrics"
	"github.com/kstaniek/go-canerrdump/internal/serial"
	"github.com/kstaniek/go-canerrdump/internal/socketcan"
)

const (
	backendSocketCAN = "socketcan"
	backendSerial    = "serial"
)

// errBackendOpen wraps any failure to open the input interface.
var errBackendOpen = errors.New("backend open")

// frameSource is an open input the dumper reads from.
type frameSource interface {
	dump.Source
	Close() error
}

// openSocketCANDevice is a hook for tests (overridden in unit tests).
var openSocketCANDevice = func(iface string, cfg socketcan.Config) (frameSource, error) {
	return socketcan.Open(iface, cfg)
}

// openSerialPort is a hook for tests (overridden in unit tests).
var openSerialPort = serial.Open

// openBackend opens the configured input and returns the dumper options
// matching it. The SocketCAN backend filters in the kernel; the serial
// backend relies on the user-space mask check.
func openBackend(cfg *appConfig, l *slog.Logger) (frameSource, []dump.Option, error) {
	switch cfg.backend {
	case backendSocketCAN:
		dev, err := openSocketCANDevice(cfg.iface, socketcan.Config{
			ErrMask:     uint32(cfg.opts.Mask),
			ReadTimeout: cfg.socketReadTO,
		})
		if err != nil {
			metrics.IncError(metrics.ErrSocketCANOpen)
			return nil, nil, fmt.Errorf("%w: socketcan %s: %w", errBackendOpen, cfg.iface, err)
		}
		l.Info("socketcan_open", "if", cfg.iface)
		return dev, []dump.Option{
			dump.WithMask(cfg.opts.Mask),
			dump.WithBackend(backendSocketCAN, metrics.ErrSocketCANRead),
		}, nil
	case backendSerial:
		sp, err := openSerialPort(cfg.iface, cfg.baud, cfg.serialReadTO)
		if err != nil {
			metrics.IncError(metrics.ErrSerialOpen)
			return nil, nil, fmt.Errorf("%w: serial %s: %w", errBackendOpen, cfg.iface, err)
		}
		l.Info("serial_open", "device", cfg.iface, "baud", cfg.baud)
		return serial.NewReader(sp), []dump.Option{
			dump.WithMask(cfg.opts.Mask),
			dump.WithBackend(backendSerial, metrics.ErrSerialRead),
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (use serial|socketcan)", cfg.backend)
	}
}
