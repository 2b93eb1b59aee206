package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/server"
	"github.com/bodyscrub/bodyscrub/internal/service"
)

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Listen = "127.0.0.1:0"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Post("http://"+addr+"/v1/sanitize?source=wire", "text/plain", strings.NewReader("Para one.\nSubscribe now"))
	if err != nil {
		cancel()
		t.Fatalf("sanitize request: %v", err)
	}
	var out service.Output
	err = json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if err != nil || out.Body != "Para one." {
		cancel()
		t.Fatalf("unexpected response %+v (%v)", out, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}

	if _, err := client.Get("http://" + addr + "/healthz"); err == nil {
		t.Fatalf("expected listener closed after shutdown")
	}
}

func TestRunServerRejectsBadListen(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Listen = "127.0.0.1:-1"
	if err := runServer(context.Background(), cfg); err == nil || !strings.HasPrefix(err.Error(), "listen ") {
		t.Fatalf("expected listen error, got %v", err)
	}
}

func TestStartMetricsServer(t *testing.T) {
	cfg := config.Default()
	svc, err := service.New(cfg)
	if err != nil {
		t.Fatalf("service.New error: %v", err)
	}
	srv, err := server.New(svc, cfg.Server)
	if err != nil {
		t.Fatalf("server.New error: %v", err)
	}

	metricsSrv, addr, err := startMetricsServer(cfg, svc, srv)
	if err != nil || metricsSrv != nil || addr != nil {
		t.Fatalf("expected no metrics server when disabled")
	}

	cfg.Metrics.Enabled = true
	cfg.Metrics.Listen = "127.0.0.1:0"
	metricsSrv, addr, err = startMetricsServer(cfg, svc, srv)
	if err != nil {
		t.Fatalf("startMetricsServer error: %v", err)
	}
	defer func() { _ = metricsSrv.Shutdown(context.Background()) }()

	svc.Process(service.Item{Body: "Para one.\nSubscribe now"}, "")

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), `bodyscrub_bodies_total{mode="enforce",outcome="cleaned",source="default"} 1`) {
		t.Fatalf("expected sanitized body counted, got:\n%s", data)
	}
}
