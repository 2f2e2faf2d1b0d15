// File path: cmd/xcgen/sidecar.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/process"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

// startChroma launches "chroma run" on the configured host and port when the
// chroma backend is selected. The returned stop function is always non-nil.
func startChroma(ctx context.Context, flags *rootFlags, backend string) (func(), error) {
	noop := func() {}
	if !flags.startChroma {
		return noop, nil
	}
	logger := common.Logger()
	if backend != orchestrator.BackendChroma {
		logger.Warn("xcgen: --start-chroma ignored for backend", "backend", backend)
		return noop, nil
	}
	cfg, err := vector.LoadConfig()
	if err != nil {
		return noop, err
	}
	binary := strings.TrimSpace(os.Getenv("CHROMA_BIN"))
	if binary == "" {
		binary = "chroma"
	}
	path, err := process.BinaryPath(binary)
	if err != nil {
		return noop, err
	}
	dataDir := strings.TrimSpace(os.Getenv("CHROMA_DATA_DIR"))
	if dataDir == "" {
		dataDir = filepath.Join("data", "chroma")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return noop, fmt.Errorf("prepare chroma data directory: %w", err)
	}
	svc, err := process.Start(ctx, process.Sidecar{
		Name:         "chroma",
		Command:      path,
		Args:         []string{"run", "--host", cfg.Host, "--port", cfg.Port, "--path", dataDir},
		ReadyURL:     cfg.BaseURL() + "/heartbeat",
		ReadyTimeout: 2 * time.Minute,
		StopTimeout:  5 * time.Second,
	})
	if err != nil {
		return noop, err
	}
	return func() {
		if err := svc.Stop(context.Background()); err != nil {
			logger.Warn("xcgen: chroma shutdown returned error", "error", err)
		}
	}, nil
}
