// File path: internal/llm/llm.go
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider validates the configuration and builds the hosted provider.
// There is no offline fallback: without an API key this returns a
// configuration error.
func NewProvider(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	common.Logger().Info("llm: provider selected", "config", cfg.String())
	return providers.NewOpenAIProvider(providers.Settings{
		APIKey:        cfg.APIKey,
		Endpoint:      cfg.Endpoint,
		ChatModel:     cfg.ChatModel,
		EmbedAPIKey:   cfg.EmbedAPIKey,
		EmbedEndpoint: cfg.EmbedEndpoint,
		EmbedModel:    cfg.EmbedModel,
	}), nil
}

// Complete sends prompt as a single user message and returns the primary text
// content. Every failure, including an empty answer, is a GenerationFailed error.
// Nothing is retried.
func Complete(ctx context.Context, provider Provider, prompt string) (string, error) {
	const op = "llm.complete"
	if provider == nil {
		return "", apperrors.New(apperrors.KindConfiguration, op, "no completion provider configured")
	}
	logger := common.Logger()
	logger.Info("llm: requesting completion", "provider", provider.Name(), "prompt_length", len(prompt))
	start := time.Now()
	text, err := provider.Chat(ctx, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		telemetry.RecordCompletion(false, time.Since(start))
		return "", apperrors.Wrapf(apperrors.KindGenerationFailed, op, err, "Generation failed")
	}
	if strings.TrimSpace(text) == "" {
		telemetry.RecordCompletion(false, time.Since(start))
		return "", apperrors.Wrapf(apperrors.KindGenerationFailed, op, errors.New("empty completion"), "Generation failed")
	}
	telemetry.RecordCompletion(true, time.Since(start))
	logger.Info("llm: completion received", "provider", provider.Name(), "length", len(text), "dur", time.Since(start))
	return text, nil
}
