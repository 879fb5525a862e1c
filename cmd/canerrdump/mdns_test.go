package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestListenPort(t *testing.T) {
	cases := map[string]int{":9100": 9100, "127.0.0.1:2112": 2112, "[::1]:80": 80}
	for addr, want := range cases {
		got, err := listenPort(addr)
		if err != nil || got != want {
			t.Fatalf("%s: got %d err %v", addr, got, err)
		}
	}
	for _, bad := range []string{"", "9100", ":http", ":0"} {
		if _, err := listenPort(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestStartMDNS(t *testing.T) {
	prev := registerMDNS
	t.Cleanup(func() { registerMDNS = prev })
	var gotService, gotInstance string
	var gotPort int
	var gotMeta []string
	shut := make(chan struct{})
	registerMDNS = func(instance, service string, port int, meta []string) (func(), error) {
		gotInstance, gotService, gotPort, gotMeta = instance, service, port, meta
		return func() { close(shut) }, nil
	}

	cfg := baseConfig()
	cfg.mdnsEnable = true
	cfg.metricsAddr = ":9100"
	cfg.mdnsName = "lab-bench"
	ctx, cancel := context.WithCancel(context.Background())
	cleanup, err := startMDNS(ctx, cfg, "")
	if err != nil {
		t.Fatalf("startMDNS: %v", err)
	}
	if gotService != mdnsServiceType || gotInstance != "lab-bench" || gotPort != 9100 {
		t.Fatalf("registered %s %s %d", gotService, gotInstance, gotPort)
	}
	if meta := strings.Join(gotMeta, " "); !strings.Contains(meta, "if=can0") || !strings.Contains(meta, "path=/metrics") {
		t.Fatalf("meta %v", gotMeta)
	}
	cancel()
	<-shut
	cleanup()
}

func TestStartMDNS_Disabled(t *testing.T) {
	prev := registerMDNS
	t.Cleanup(func() { registerMDNS = prev })
	registerMDNS = func(string, string, int, []string) (func(), error) {
		return nil, errors.New("must not register")
	}
	cleanup, err := startMDNS(context.Background(), baseConfig(), "")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cleanup()
}

func TestStartMDNS_PrefersStream(t *testing.T) {
	prev := registerMDNS
	t.Cleanup(func() { registerMDNS = prev })
	var gotPort int
	var gotMeta []string
	registerMDNS = func(_ string, _ string, port int, meta []string) (func(), error) {
		gotPort, gotMeta = port, meta
		return func() {}, nil
	}
	cfg := baseConfig()
	cfg.mdnsEnable = true
	cfg.metricsAddr = ":9100"
	cleanup, err := startMDNS(context.Background(), cfg, "127.0.0.1:20000")
	if err != nil {
		t.Fatalf("startMDNS: %v", err)
	}
	defer cleanup()
	if gotPort != 20000 || !strings.Contains(strings.Join(gotMeta, " "), "proto=lines") {
		t.Fatalf("port=%d meta=%v", gotPort, gotMeta)
	}
}
