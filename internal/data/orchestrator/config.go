// File path: internal/data/orchestrator/config.go
package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendChroma = "chroma"
)

// Config selects and locates the vector index opened at startup.
type Config struct {
	Backend   string
	IndexPath string
	// CreateIndex allows a missing local index file to be created. Only the
	// offline index build sets it.
	CreateIndex bool
}

// DefaultConfig returns the baseline configuration used when no overrides are
// supplied.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendSQLite,
		IndexPath: sqlite.DefaultPath,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("INDEX_BACKEND")); value != "" {
		cfg.Backend = strings.ToLower(value)
	}
	if value := strings.TrimSpace(os.Getenv("INDEX_PATH")); value != "" {
		cfg.IndexPath = value
	}
	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.Backend) == "" {
		cfg.Backend = defaults.Backend
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if strings.TrimSpace(cfg.IndexPath) == "" {
		cfg.IndexPath = defaults.IndexPath
	}
	return cfg
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendSQLite, BackendChroma:
		return nil
	default:
		return apperrors.New(apperrors.KindConfiguration, "orchestrator.config",
			fmt.Sprintf("unknown INDEX_BACKEND %q (want %s or %s)", c.Backend, BackendSQLite, BackendChroma))
	}
}
