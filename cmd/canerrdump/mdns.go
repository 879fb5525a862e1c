package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
)

// mdnsServiceType is the advertised service. It points at the line stream
// when one is configured and at the metrics endpoint otherwise.
const mdnsServiceType = "_canerrdump._tcp"

// registerMDNS is a hook for tests.
var registerMDNS = func(instance, service string, port int, meta []string) (func(), error) {
	svc, err := zeroconf.Register(instance, service, "local.", port, meta, nil)
	if err != nil {
		return nil, err
	}
	return svc.Shutdown, nil
}

// listenPort extracts the TCP port from a listen address (host:port or :port).
func listenPort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(p)
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("invalid port in %q", addr)
	}
	return n, nil
}

// startMDNS registers the service via mDNS and returns a cleanup function.
// addr is the bound stream address, or empty to advertise the metrics
// endpoint. It is a no-op when disabled.
func startMDNS(ctx context.Context, cfg *appConfig, addr string) (func(), error) {
	if !cfg.mdnsEnable {
		return func() {}, nil
	}
	endpoint := "proto=lines"
	if addr == "" {
		addr, endpoint = cfg.metricsAddr, "path=/metrics"
	}
	port, err := listenPort(addr)
	if err != nil {
		return nil, fmt.Errorf("mdns port: %w", err)
	}
	instance := cfg.mdnsName
	if instance == "" {
		host, _ := os.Hostname()
		instance = fmt.Sprintf("canerrdump-%s", host)
	}
	meta := []string{
		"backend=" + cfg.backend,
		"if=" + cfg.iface,
		endpoint,
		"version=" + version,
		"commit=" + commit,
	}
	shutdown, err := registerMDNS(instance, mdnsServiceType, port, meta)
	if err != nil {
		return nil, fmt.Errorf("mdns register: %w", err)
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdown()
	}()
	return func() { close(done); time.Sleep(50 * time.Millisecond) }, nil
}
