// File path: internal/sqlite/config.go
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultPath = "data/index.db"

const (
	defaultMaxOpenConns    = 8
	defaultConnMaxLifetime = 15 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultBusyTimeout     = 5 * time.Second
)

// Config locates the local snippet index and tunes its connection pool.
type Config struct {
	Path string

	// CreateIfMissing lets the offline index build create a fresh file.
	// Request-serving callers leave it false so a missing index is reported.
	CreateIfMissing bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	BusyTimeout     time.Duration
}

// fileConfig is the JSON shape of SQLITE_CONFIG_FILE; durations are strings
// such as "30s".
type fileConfig struct {
	Path            string `json:"path"`
	MaxOpenConns    int    `json:"max_open_conns"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	ConnMaxLifetime string `json:"conn_max_lifetime"`
	ConnMaxIdleTime string `json:"conn_max_idle_time"`
	BusyTimeout     string `json:"busy_timeout"`
}

// Merge overlays the set fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	if p := strings.TrimSpace(override.Path); p != "" {
		result.Path = p
	}
	result.CreateIfMissing = result.CreateIfMissing || override.CreateIfMissing
	for _, pair := range []struct{ dst, src *int }{
		{&result.MaxOpenConns, &override.MaxOpenConns},
		{&result.MaxIdleConns, &override.MaxIdleConns},
	} {
		if *pair.src > 0 {
			*pair.dst = *pair.src
		}
	}
	for _, pair := range []struct{ dst, src *time.Duration }{
		{&result.ConnMaxLifetime, &override.ConnMaxLifetime},
		{&result.ConnMaxIdleTime, &override.ConnMaxIdleTime},
		{&result.BusyTimeout, &override.BusyTimeout},
	} {
		if *pair.src > 0 {
			*pair.dst = *pair.src
		}
	}
	return result
}

// LoadConfig reads SQLITE_CONFIG_FILE (optional JSON), then INDEX_PATH and the
// SQLITE_* pool variables. Malformed numbers or durations are errors.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("SQLITE_CONFIG_FILE")); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = DefaultPath
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = defaultConnMaxIdleTime
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = defaultBusyTimeout
	}
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read sqlite config: %w", err)
	}
	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse sqlite config: %w", err)
	}
	cfg := Config{Path: raw.Path, MaxOpenConns: raw.MaxOpenConns, MaxIdleConns: raw.MaxIdleConns}
	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"conn_max_lifetime", raw.ConnMaxLifetime, &cfg.ConnMaxLifetime},
		{"conn_max_idle_time", raw.ConnMaxIdleTime, &cfg.ConnMaxIdleTime},
		{"busy_timeout", raw.BusyTimeout, &cfg.BusyTimeout},
	} {
		if strings.TrimSpace(d.value) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return Config{}, fmt.Errorf("parse sqlite config %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return cfg, nil
}

func loadConfigEnv() (Config, error) {
	cfg := Config{Path: strings.TrimSpace(os.Getenv("INDEX_PATH"))}
	for _, v := range []struct {
		key string
		dst *int
	}{
		{"SQLITE_MAX_OPEN_CONNS", &cfg.MaxOpenConns},
		{"SQLITE_MAX_IDLE_CONNS", &cfg.MaxIdleConns},
	} {
		raw := strings.TrimSpace(os.Getenv(v.key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = n
	}
	for _, v := range []struct {
		key string
		dst *time.Duration
	}{
		{"SQLITE_CONN_MAX_LIFETIME", &cfg.ConnMaxLifetime},
		{"SQLITE_CONN_MAX_IDLE_TIME", &cfg.ConnMaxIdleTime},
		{"SQLITE_BUSY_TIMEOUT", &cfg.BusyTimeout},
	} {
		raw := strings.TrimSpace(os.Getenv(v.key))
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = d
	}
	return cfg, nil
}
