// File path: internal/common/process/process.go
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common"
)

const (
	defaultReadyTimeout  = 30 * time.Second
	defaultReadyInterval = 500 * time.Millisecond
	defaultStopTimeout   = 5 * time.Second
)

// Sidecar describes a helper process started next to the CLI, such as a
// local Chroma server.
type Sidecar struct {
	Name          string
	Command       string
	Args          []string
	Env           []string
	WorkDir       string
	ReadyURL      string
	ReadyTimeout  time.Duration
	ReadyInterval time.Duration
	StopTimeout   time.Duration
}

// Service is a running sidecar.
type Service struct {
	cfg   Sidecar
	cmd    *exec.Cmd
	logger *slog.Logger

	done    chan struct{}
	mu      sync.RWMutex
	waitErr error
}

// Start launches the sidecar, forwards its output to the process logger and
// blocks until ReadyURL answers or the ready timeout passes.
func Start(ctx context.Context, cfg Sidecar) (*Service, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("process: command required")
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = filepath.Base(cfg.Command)
	}
	cfg.Name = name
	logger := common.Logger().With("component", "sidecar/"+strings.ToLower(name))
	logger.Info("process: launching sidecar", "command", cfg.Command, "args", strings.Join(cfg.Args, " "))

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.WorkDir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe %s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stderr pipe %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", name, err)
	}

	svc := &Service{cfg: cfg, cmd: cmd, logger: logger, done: make(chan struct{})}
	var streams sync.WaitGroup
	streams.Add(2)
	go svc.forward(&streams, stdout, slog.LevelInfo)
	go svc.forward(&streams, stderr, slog.LevelWarn)
	go func() {
		streams.Wait()
		err := cmd.Wait()
		svc.mu.Lock()
		svc.waitErr = err
		svc.mu.Unlock()
		close(svc.done)
	}()

	if err := svc.waitReady(ctx); err != nil {
		_ = svc.Stop(context.Background())
		return nil, err
	}
	logger.Info("process: sidecar ready", "url", cfg.ReadyURL)
	return svc, nil
}

func (s *Service) forward(wg *sync.WaitGroup, pipe io.Reader, level slog.Level) {
	defer wg.Done()
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.logger.Log(context.Background(), level, scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.logger.Warn("process: output stream error", "error", err)
	}
}

// Done is closed once the sidecar has exited.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Stop interrupts the sidecar and kills it if it outlives StopTimeout.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	s.logger.Info("process: stopping sidecar")
	if err := s.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Warn("process: interrupt failed", "error", err)
	}
	timeout := s.cfg.StopTimeout
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.done:
	case <-timer.C:
		s.logger.Warn("process: killing sidecar")
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
		<-s.done
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.exitError()
}

func (s *Service) waitReady(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.ReadyURL) == "" {
		return nil
	}
	timeout := s.cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	interval := s.cfg.ReadyInterval
	if interval <= 0 {
		interval = defaultReadyInterval
	}
	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-readyCtx.Done():
			if lastErr == nil {
				lastErr = readyCtx.Err()
			}
			return fmt.Errorf("process: %s not ready after %s: %w", s.cfg.Name, timeout, lastErr)
		case <-s.done:
			return fmt.Errorf("process: %s exited before ready: %v", s.cfg.Name, s.exitError())
		case <-ticker.C:
			lastErr = checkReady(readyCtx, client, s.cfg.ReadyURL)
			if lastErr == nil {
				return nil
			}
		}
	}
}

func checkReady(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// exitError hides the signal exit produced by Stop.
func (s *Service) exitError() error {
	s.mu.RLock()
	err := s.waitErr
	s.mu.RUnlock()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !exitErr.Exited() {
		return nil
	}
	return err
}

// BinaryPath resolves an executable on PATH.
func BinaryPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("process: binary name required")
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("process: locate %s: %w", name, err)
	}
	return filepath.Clean(path), nil
}
