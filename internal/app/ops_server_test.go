package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/catalog-orders/internal/health"
	"github.com/vladislavdragonenkov/catalog-orders/internal/version"
)

func TestStartOpsServer_Endpoints(t *testing.T) {
	logger := log.WithField("test", "ops")

	port := findFreePort(t)
	addr := fmt.Sprintf(":%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("storage", healthcheck.NewFuncChecker("storage", func() error {
		return nil
	}))
	srv := startOpsServer(ctx, addr, logger, healthHandler)
	defer shutdownHTTP(srv, logger)

	// Даём время на запуск.
	time.Sleep(100 * time.Millisecond)

	base := fmt.Sprintf("http://localhost:%d", port)

	resp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("failed to get /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 for /metrics, got %d", resp.StatusCode)
	}
	if len(body) == 0 {
		t.Error("/metrics should return non-empty response")
	}

	for path, wantStatus := range map[string]int{
		"/healthz": http.StatusOK,
		"/livez":   http.StatusOK,
		"/readyz":  http.StatusOK,
	} {
		resp, err := http.Get(base + path)
		if err != nil {
			t.Fatalf("failed to get %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != wantStatus {
			t.Errorf("expected status %d for %s, got %d", wantStatus, path, resp.StatusCode)
		}
	}
}

func findFreePort(t *testing.T) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer lis.Close()

	return lis.Addr().(*net.TCPAddr).Port
}
