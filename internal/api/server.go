// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
	"github.com/nicodishanthj/xcgen/internal/generator"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

type Server struct {
	router    chi.Router
	generator *generator.Generator
	options   testcase.Options
	uiPath    string

	orchestrator *orchestrator.Orchestrator
}

// Config controls static asset lookup.
type Config struct {
	UIPath string
}

// DefaultConfig returns the standard configuration used when no overrides are
// provided.
func DefaultConfig() Config {
	return Config{UIPath: filepath.Join("web", "ui")}
}

// Merge overlays non-empty fields from the override onto the base configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.UIPath) != "" {
		result.UIPath = strings.TrimSpace(override.UIPath)
	}
	return result
}

func NewServer(orch *orchestrator.Orchestrator, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if orch == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	store := orch.Vector()
	logger.Info(
		"api: building server",
		"provider", orch.Provider().Name(),
		"vector", store.Name(),
		"vector_available", store.Available(),
	)
	srv := &Server{
		router:       chi.NewRouter(),
		generator:    orch.Generator(),
		options:      testcase.DefaultOptions(),
		uiPath:       configuration.UIPath,
		orchestrator: orch,
	}
	srv.routes()
	logger.Info("api: server ready", "routes", true)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	index := filepath.Join(s.uiPath, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("api: ui index missing", "path", index, "error", err)
	} else {
		logger.Info("api: ui assets located", "path", s.uiPath)
	}
	fileServer := http.FileServer(http.Dir(s.uiPath))
	s.router.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusMovedPermanently)
	})
	s.router.Get("/ui/*", func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/ui/")
		if trimmed == "" || trimmed == "/" {
			http.ServeFile(w, r, index)
			return
		}
		http.StripPrefix("/ui/", fileServer).ServeHTTP(w, r)
	})
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	s.router.Get("/v1/options", s.handleOptions)
	s.router.Post("/v1/generate", s.handleGenerate)
	s.router.Post("/v1/export/{format}", s.handleExport)
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Handle("/debug/vars", expvar.Handler())
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorWithWarnings(w, status, err, nil)
}

func writeErrorWithWarnings(w http.ResponseWriter, status int, err error, warnings []string) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	body := errorResponse{Error: err.Error(), Warnings: warnings}
	if appErr := asAppError(err); appErr != nil {
		body.Error = appErr.UserMessage()
		body.Kind = string(appErr.Kind)
	}
	writeJSON(w, status, body)
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput, apperrors.KindFileRead:
		return http.StatusBadRequest
	case apperrors.KindConfiguration, apperrors.KindIndexUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.KindGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
