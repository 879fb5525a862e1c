package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kstaniek/go-canerrdump/internal/canerr"
	"github.com/kstaniek/go-canerrdump/internal/hub"
)

// errUsage signals that usage was requested (no interface given).
var errUsage = errors.New("usage requested")

type appConfig struct {
	backend         string
	iface           string
	baud            int
	serialReadTO    time.Duration
	socketReadTO    time.Duration
	logFormat       string
	logLevel        string
	metricsAddr     string
	logMetricsEvery time.Duration
	mdnsEnable      bool
	mdnsName        string
	listenAddr      string
	maxClients      int
	streamBuffer    int
	streamPolicy    string
	showVersion     bool
	opts            canerr.Options
}

// newFlagSet registers every flag on a fresh set bound to cfg.
func newFlagSet(cfg *appConfig, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("canerrdump", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out, fs) }
	fs.StringVar(&cfg.backend, "backend", backendSocketCAN, "Input backend: socketcan|serial")
	fs.IntVar(&cfg.baud, "baud", 115200, "Serial baud rate (when -backend=serial)")
	fs.DurationVar(&cfg.serialReadTO, "serial-read-timeout", 50*time.Millisecond, "Serial read timeout")
	fs.DurationVar(&cfg.socketReadTO, "read-timeout", 500*time.Millisecond, "SocketCAN receive timeout used to notice shutdown")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Log format: text|json")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "Metrics HTTP listen address (e.g., :9100); empty disables")
	fs.DurationVar(&cfg.logMetricsEvery, "log-metrics-interval", 0, "If >0, periodically log metrics counters")
	fs.BoolVar(&cfg.mdnsEnable, "mdns-enable", false, "Advertise the metrics endpoint via mDNS")
	fs.StringVar(&cfg.mdnsName, "mdns-name", "", "mDNS instance name (default canerrdump-<hostname>)")
	fs.StringVar(&cfg.listenAddr, "listen", "", "TCP address streaming decoded lines to clients (e.g., :20000); empty disables")
	fs.IntVar(&cfg.maxClients, "max-clients", 0, "Maximum simultaneous stream clients (0 = unlimited)")
	fs.IntVar(&cfg.streamBuffer, "stream-buffer", 512, "Per-client stream buffer (lines)")
	fs.StringVar(&cfg.streamPolicy, "stream-policy", "drop", "Backpressure policy for slow stream clients: drop|kick")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")
	return fs
}

// parseArgs parses flags, the interface name and the option tokens.
// It returns errUsage when no interface was given, and an error wrapping
// canerr.ErrUnknownOption for bad option tokens.
func parseArgs(args []string, stderr io.Writer) (*appConfig, error) {
	cfg := &appConfig{}
	fs := newFlagSet(cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.showVersion {
		return cfg, nil
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return cfg, errUsage
	}

	setFlags := map[string]struct{}{}
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })
	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		return nil, fmt.Errorf("environment override error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	cfg.iface = rest[0]
	opts, err := canerr.BuildMask(rest[1:])
	if err != nil {
		return nil, err
	}
	cfg.opts = opts
	return cfg, nil
}

// validate performs basic semantic validation of the parsed configuration.
// It does not attempt to open devices or listeners – only checks values/ranges.
func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	switch c.backend {
	case backendSocketCAN, backendSerial:
	default:
		return fmt.Errorf("invalid backend: %s", c.backend)
	}
	if c.baud <= 0 {
		return fmt.Errorf("baud must be > 0 (got %d)", c.baud)
	}
	if c.serialReadTO <= 0 {
		return fmt.Errorf("serial-read-timeout must be > 0")
	}
	if c.socketReadTO <= 0 {
		return fmt.Errorf("read-timeout must be > 0")
	}
	if c.logMetricsEvery < 0 {
		return fmt.Errorf("log-metrics-interval must be >= 0")
	}
	if _, err := hub.ParsePolicy(c.streamPolicy); err != nil {
		return fmt.Errorf("invalid stream-policy: %s", c.streamPolicy)
	}
	if c.streamBuffer <= 0 {
		return fmt.Errorf("stream-buffer must be > 0 (got %d)", c.streamBuffer)
	}
	if c.maxClients < 0 {
		return fmt.Errorf("max-clients must be >= 0")
	}
	if c.mdnsEnable && c.metricsAddr == "" && c.listenAddr == "" {
		return fmt.Errorf("mdns-enable requires listen or metrics-addr")
	}
	return nil
}

// applyEnvOverrides maps CANERRDUMP_* environment variables to config fields
// unless a corresponding flag was explicitly set. Empty values are ignored.
// Duration accepts Go time.ParseDuration format.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }
	setErr := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}
	str := func(flagName, env string, dst *string) {
		if _, ok := set[flagName]; ok {
			return
		}
		if v, ok := get(env); ok && v != "" {
			*dst = v
		}
	}
	dur := func(flagName, env string, dst *time.Duration) {
		if _, ok := set[flagName]; ok {
			return
		}
		if v, ok := get(env); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				setErr(fmt.Errorf("invalid %s: %w", env, err))
				return
			}
			*dst = d
		}
	}

	str("backend", "CANERRDUMP_BACKEND", &c.backend)
	str("log-format", "CANERRDUMP_LOG_FORMAT", &c.logFormat)
	str("log-level", "CANERRDUMP_LOG_LEVEL", &c.logLevel)
	str("mdns-name", "CANERRDUMP_MDNS_NAME", &c.mdnsName)
	str("listen", "CANERRDUMP_LISTEN", &c.listenAddr)
	str("stream-policy", "CANERRDUMP_STREAM_POLICY", &c.streamPolicy)
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("CANERRDUMP_METRICS"); ok {
			c.metricsAddr = v
		}
	}
	num := func(flagName, env string, dst *int) {
		if _, ok := set[flagName]; ok {
			return
		}
		if v, ok := get(env); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				setErr(fmt.Errorf("invalid %s: %w", env, err))
				return
			}
			*dst = n
		}
	}
	num("baud", "CANERRDUMP_BAUD", &c.baud)
	num("max-clients", "CANERRDUMP_MAX_CLIENTS", &c.maxClients)
	num("stream-buffer", "CANERRDUMP_STREAM_BUFFER", &c.streamBuffer)
	dur("serial-read-timeout", "CANERRDUMP_SERIAL_READ_TIMEOUT", &c.serialReadTO)
	dur("read-timeout", "CANERRDUMP_READ_TIMEOUT", &c.socketReadTO)
	dur("log-metrics-interval", "CANERRDUMP_LOG_METRICS_INTERVAL", &c.logMetricsEvery)
	if _, ok := set["mdns-enable"]; !ok {
		if v, ok := get("CANERRDUMP_MDNS_ENABLE"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.mdnsEnable = true
			case "0", "false", "no", "off":
				c.mdnsEnable = false
			default:
				setErr(fmt.Errorf("invalid CANERRDUMP_MDNS_ENABLE: %q", v))
			}
		}
	}
	return firstErr
}
