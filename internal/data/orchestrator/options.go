// File path: internal/data/orchestrator/options.go
package orchestrator

import (
	"github.com/nicodishanthj/xcgen/internal/llm"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

type Option func(*options)

type options struct {
	vector   vector.Store
	provider llm.Provider
}

// WithVectorStore injects a vector store implementation instead of opening
// the configured backend.
func WithVectorStore(store vector.Store) Option {
	return func(o *options) {
		o.vector = store
	}
}

// WithProvider injects a model provider instead of building one from LLM_*
// settings.
func WithProvider(provider llm.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}
