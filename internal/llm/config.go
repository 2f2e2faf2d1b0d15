// File path: internal/llm/config.go
package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
)

const (
	DefaultEndpoint      = "https://api.groq.com/openai/v1"
	DefaultChatModel     = "llama3-70b-8192"
	DefaultEmbedEndpoint = "http://localhost:8080/v1"
	DefaultEmbedModel    = "sentence-transformers/all-MiniLM-L6-v2"
)

// Config selects the completion and embedding endpoints. The chat model is
// fixed by configuration and never chosen per request.
type Config struct {
	APIKey    string `json:"-"`
	Endpoint  string `json:"endpoint"`
	ChatModel string `json:"chat_model"`

	EmbedAPIKey   string `json:"-"`
	EmbedEndpoint string `json:"embed_endpoint"`
	EmbedModel    string `json:"embed_model"`
}

func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.APIKey) != "" {
		result.APIKey = strings.TrimSpace(override.APIKey)
	}
	if strings.TrimSpace(override.Endpoint) != "" {
		result.Endpoint = strings.TrimSpace(override.Endpoint)
	}
	if strings.TrimSpace(override.ChatModel) != "" {
		result.ChatModel = strings.TrimSpace(override.ChatModel)
	}
	if strings.TrimSpace(override.EmbedAPIKey) != "" {
		result.EmbedAPIKey = strings.TrimSpace(override.EmbedAPIKey)
	}
	if strings.TrimSpace(override.EmbedEndpoint) != "" {
		result.EmbedEndpoint = strings.TrimSpace(override.EmbedEndpoint)
	}
	if strings.TrimSpace(override.EmbedModel) != "" {
		result.EmbedModel = strings.TrimSpace(override.EmbedModel)
	}
	return result
}

// LoadConfig reads LLM_CONFIG_FILE (JSON, optional) and then the environment.
// Missing credentials are reported by Validate, not here.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("LLM_CONFIG_FILE")); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	cfg = cfg.Merge(loadConfigEnv())
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.ChatModel == "" {
		c.ChatModel = DefaultChatModel
	}
	if c.EmbedAPIKey == "" {
		c.EmbedAPIKey = c.APIKey
	}
	if c.EmbedEndpoint == "" {
		c.EmbedEndpoint = DefaultEmbedEndpoint
	}
	if c.EmbedModel == "" {
		c.EmbedModel = DefaultEmbedModel
	}
}

// Validate fails with a configuration error when no API key is available,
// so no completion call can ever be attempted without credentials.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return apperrors.New(apperrors.KindConfiguration, "llm.config",
			"completion API key missing: set LLM_API_KEY (or GROQ_API_KEY / OPENAI_API_KEY)")
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		return apperrors.New(apperrors.KindConfiguration, "llm.config", "chat model not configured")
	}
	return nil
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, apperrors.Wrapf(apperrors.KindConfiguration, "llm.config", err, "read llm config")
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperrors.Wrapf(apperrors.KindConfiguration, "llm.config", err, "parse llm config %s", path)
	}
	return cfg, nil
}

func loadConfigEnv() Config {
	return Config{
		APIKey:        firstEnv("LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"),
		Endpoint:      firstEnv("LLM_ENDPOINT"),
		ChatModel:     firstEnv("LLM_CHAT_MODEL"),
		EmbedAPIKey:   firstEnv("EMBED_API_KEY"),
		EmbedEndpoint: firstEnv("EMBED_ENDPOINT"),
		EmbedModel:    firstEnv("EMBED_MODEL"),
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func (c Config) String() string {
	return fmt.Sprintf("endpoint=%s chat_model=%s embed_endpoint=%s embed_model=%s", c.Endpoint, c.ChatModel, c.EmbedEndpoint, c.EmbedModel)
}
