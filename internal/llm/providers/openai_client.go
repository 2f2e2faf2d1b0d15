// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/nicodishanthj/xcgen/internal/common"
)

// OpenAIProvider works against any OpenAI-compatible API (Groq, OpenAI, a
// local embedding server). Chat and embeddings may live on different hosts.
type OpenAIProvider struct {
	chat       openai.Client
	embed      openai.Client
	chatModel  string
	embedModel string
}

func NewOpenAIProvider(s Settings) *OpenAIProvider {
	logger := common.Logger()
	embedKey := s.EmbedAPIKey
	if embedKey == "" {
		embedKey = s.APIKey
	}
	logger.Info("llm: OpenAI-compatible provider configured",
		"endpoint", s.Endpoint,
		"chat_model", s.ChatModel,
		"embed_endpoint", s.EmbedEndpoint,
		"embed_model", s.EmbedModel,
	)
	return &OpenAIProvider{
		chat:       openai.NewClient(clientOptions(s.APIKey, s.Endpoint)...),
		embed:      openai.NewClient(clientOptions(embedKey, s.EmbedEndpoint)...),
		chatModel:  s.ChatModel,
		embedModel: s.EmbedModel,
	}
}

// Retries are left to the user: the SDK must not retry on its own.
func clientOptions(apiKey, endpoint string) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(endpoint, "/")+"/"))
	}
	return opts
}

func (o *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}
	logger := common.Logger()
	params := openai.ChatCompletionNewParams{Model: openai.ChatModel(o.chatModel)}
	for _, msg := range messages {
		switch strings.ToLower(msg.Role) {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	start := time.Now()
	resp, err := o.chat.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: chat completion failed", "model", o.chatModel, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	logger.Debug("llm: chat completion succeeded",
		"model", o.chatModel,
		"dur", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason,
	)
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}
	logger := common.Logger()
	logger.Debug("llm: creating embeddings", "model", o.embedModel, "items", len(input))
	resp, err := o.embed.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.embedModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: input},
	})
	if err != nil {
		logger.Error("llm: embedding request failed", "model", o.embedModel, "error", err)
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("create embeddings: expected %d vectors, got %d", len(input), len(resp.Data))
	}
	vectors := make([][]float32, len(input))
	for pos, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(vectors) || vectors[idx] != nil {
			idx = pos
		}
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		vectors[idx] = vec
	}
	return vectors, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

var _ Provider = (*OpenAIProvider)(nil)
