// File path: internal/llm/providers/provider.go
package providers

import "context"

type Message struct {
	Role    string
	Content string
}

// Provider talks to a hosted model API.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}

// Settings carries the resolved endpoint configuration for a provider.
type Settings struct {
	APIKey    string
	Endpoint  string
	ChatModel string

	EmbedAPIKey   string
	EmbedEndpoint string
	EmbedModel    string
}
