// File path: cmd/xcgen/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicodishanthj/xcgen/internal/api"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var (
		addr   string
		uiPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags, addr, uiPath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().StringVar(&uiPath, "ui", "", "directory holding the web form (default web/ui)")
	return cmd
}

func runServe(parent context.Context, flags *rootFlags, addr, uiPath string) error {
	logger := common.Logger()
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := flags.orchestratorConfig()
	if err != nil {
		return err
	}
	stopChroma, err := startChroma(ctx, flags, cfg.Backend)
	if err != nil {
		return err
	}
	defer stopChroma()

	orch, err := orchestrator.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer orch.Close()
	if indexErr := orch.IndexError(); indexErr != nil {
		logger.Warn("xcgen: serving without a usable index", "backend", cfg.Backend, "error", indexErr)
	}

	server, err := api.NewServer(orch, &api.Config{UIPath: uiPath})
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	reachable := addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("xcgen: server listening", "addr", addr, "ui", "/ui/", "health", "/healthz")
	fmt.Printf("Serving on http://%s/ui/\n", reachable)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("xcgen: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
