package main

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kstaniek/go-canerrdump/internal/canerr"
)

func baseConfig() *appConfig {
	return &appConfig{
		backend:      backendSocketCAN,
		iface:        "can0",
		baud:         115200,
		serialReadTO: 10 * time.Millisecond,
		socketReadTO: 100 * time.Millisecond,
		logFormat:    "text",
		logLevel:     "info",
		streamBuffer: 512,
		streamPolicy: "drop",
	}
}

func TestConfigValidate_OK(t *testing.T) {
	if err := baseConfig().validate(); err != nil {
		t.Fatalf("expected ok got %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*appConfig)
	}{
		{"badFormat", func(c *appConfig) { c.logFormat = "xx" }},
		{"badLevel", func(c *appConfig) { c.logLevel = "nope" }},
		{"badBackend", func(c *appConfig) { c.backend = "x" }},
		{"badBaud", func(c *appConfig) { c.baud = 0 }},
		{"badSerialTO", func(c *appConfig) { c.serialReadTO = 0 }},
		{"badReadTO", func(c *appConfig) { c.socketReadTO = 0 }},
		{"badMetricsInterval", func(c *appConfig) { c.logMetricsEvery = -time.Second }},
		{"mdnsWithoutEndpoint", func(c *appConfig) { c.mdnsEnable = true }},
		{"badPolicy", func(c *appConfig) { c.streamPolicy = "block" }},
		{"badStreamBuffer", func(c *appConfig) { c.streamBuffer = 0 }},
		{"badMaxClients", func(c *appConfig) { c.maxClients = -1 }},
	}
	for _, tc := range tests {
		base := baseConfig()
		tc.mod(base)
		if err := base.validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestParseArgs_InterfaceAndOptions(t *testing.T) {
	cfg, err := parseArgs([]string{"-log-level", "debug", "vcan0", "ignorebusoff", "SHOWBITS"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cfg.iface != "vcan0" || cfg.logLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.opts.ShowBits {
		t.Fatalf("expected ShowBits")
	}
	if cfg.opts.Mask != canerr.DefaultMask.Without(canerr.ClassBusOff) {
		t.Fatalf("mask=%s", cfg.opts.Mask.Bits())
	}
}

func TestParseArgs_NoInterface(t *testing.T) {
	if _, err := parseArgs(nil, io.Discard); !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
}

func TestParseArgs_UnknownOptions(t *testing.T) {
	_, err := parseArgs([]string{"can0", "IgnoreBusOff", "Bogus", "IgnoreEverything"}, io.Discard)
	if !errors.Is(err, canerr.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestParseArgs_Version(t *testing.T) {
	cfg, err := parseArgs([]string{"-version"}, io.Discard)
	if err != nil || !cfg.showVersion {
		t.Fatalf("expected version request, got %+v %v", cfg, err)
	}
}
