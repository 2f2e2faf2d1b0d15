// File path: internal/vector/config.go
package vector

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultCollection = "xcgen_test_cases"

// Config points the Chroma backend at a running server.
type Config struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	Scheme     string `json:"scheme"`
	Collection string `json:"collection"`
	APIKey     string `json:"api_key"`

	Timeout             time.Duration `json:"-"`
	HTTPMaxIdleConns    int           `json:"http_max_idle_conns"`
	HTTPIdleConnTimeout time.Duration `json:"-"`
}

// Merge overlays the set fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	for _, pair := range []struct{ dst, src *string }{
		{&result.Host, &override.Host},
		{&result.Port, &override.Port},
		{&result.Scheme, &override.Scheme},
		{&result.Collection, &override.Collection},
		{&result.APIKey, &override.APIKey},
	} {
		if v := strings.TrimSpace(*pair.src); v != "" {
			*pair.dst = v
		}
	}
	if override.Timeout > 0 {
		result.Timeout = override.Timeout
	}
	if override.HTTPMaxIdleConns > 0 {
		result.HTTPMaxIdleConns = override.HTTPMaxIdleConns
	}
	if override.HTTPIdleConnTimeout > 0 {
		result.HTTPIdleConnTimeout = override.HTTPIdleConnTimeout
	}
	return result
}

// LoadConfig reads CHROMADB_CONFIG_FILE (optional JSON) and then CHROMADB_* variables.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("CHROMADB_CONFIG_FILE")); path != "" {
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
	*c = Config{
		Host:                "localhost",
		Port:                "8000",
		Scheme:              "http",
		Collection:          DefaultCollection,
		Timeout:             10 * time.Second,
		HTTPMaxIdleConns:    16,
		HTTPIdleConnTimeout: 90 * time.Second,
	}.Merge(*c)
}

// BaseURL is the REST root of the Chroma server.
func (c Config) BaseURL() string {
	u := url.URL{Scheme: c.Scheme, Host: net.JoinHostPort(c.Host, c.Port), Path: "/api/v1"}
	return u.String()
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read chromadb config: %w", err)
	}
	var raw struct {
		Config
		Timeout string `json:"timeout"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse chromadb config: %w", err)
	}
	cfg := raw.Config
	if t := strings.TrimSpace(raw.Timeout); t != "" {
		if cfg.Timeout, err = time.ParseDuration(t); err != nil {
			return Config{}, fmt.Errorf("parse chromadb config timeout: %w", err)
		}
	}
	return cfg, nil
}

func loadConfigEnv() (Config, error) {
	cfg := Config{
		Host:       os.Getenv("CHROMADB_HOST"),
		Port:       os.Getenv("CHROMADB_PORT"),
		Scheme:     os.Getenv("CHROMADB_SCHEME"),
		Collection: os.Getenv("CHROMADB_COLLECTION"),
		APIKey:     os.Getenv("CHROMADB_API_KEY"),
	}
	if raw := strings.TrimSpace(os.Getenv("CHROMADB_HTTP_MAX_IDLE_CONNS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHROMADB_HTTP_MAX_IDLE_CONNS: %w", err)
		}
		cfg.HTTPMaxIdleConns = n
	}
	for _, v := range []struct {
		key string
		dst *time.Duration
	}{
		{"CHROMADB_TIMEOUT", &cfg.Timeout},
		{"CHROMADB_HTTP_IDLE_CONN_TIMEOUT", &cfg.HTTPIdleConnTimeout},
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
