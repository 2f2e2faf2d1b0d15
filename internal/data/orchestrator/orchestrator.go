// File path: internal/data/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/generator"
	"github.com/nicodishanthj/xcgen/internal/kb"
	"github.com/nicodishanthj/xcgen/internal/llm"
	"github.com/nicodishanthj/xcgen/internal/retriever"
	"github.com/nicodishanthj/xcgen/internal/sqlite"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

type closer interface {
	Close() error
}

// Orchestrator opens the vector index and the model provider once per
// process and hands out the components built on them. Requests share these
// read-only.
type Orchestrator struct {
	cfg Config

	vector   vector.Store
	provider llm.Provider
	indexErr error

	closers []closer
}

// New constructs an orchestrator. A missing API key is a configuration error.
// An index that cannot be opened is not: it is reported by every retrieval
// instead, so the server can still start and explain the problem.
func New(ctx context.Context, cfg Config, opts ...Option) (*Orchestrator, error) {
	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	settings := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	provider := settings.provider
	if provider == nil {
		llmCfg, err := llm.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load llm config: %w", err)
		}
		provider, err = llm.NewProvider(llmCfg)
		if err != nil {
			return nil, err
		}
	}

	orch := &Orchestrator{cfg: cfg, provider: provider}
	switch {
	case settings.vector != nil:
		orch.vector = settings.vector
	default:
		store, err := openStore(ctx, cfg)
		if err != nil {
			common.Logger().Warn("orchestrator: vector index unavailable", "backend", cfg.Backend, "error", err)
			orch.indexErr = err
			orch.vector = unavailableStore{backend: cfg.Backend, err: err}
		} else {
			orch.vector = store
			orch.closers = append(orch.closers, store)
		}
	}
	common.Logger().Info("orchestrator: ready", "backend", orch.vector.Name(), "provider", provider.Name())
	return orch, nil
}

func openStore(ctx context.Context, cfg Config) (vector.Store, error) {
	switch cfg.Backend {
	case BackendChroma:
		client, err := vector.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("init chroma client: %w", err)
		}
		return client, nil
	default:
		sqlCfg, err := sqlite.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load sqlite config: %w", err)
		}
		sqlCfg.Path = cfg.IndexPath
		sqlCfg.CreateIfMissing = cfg.CreateIndex
		store, err := sqlite.OpenWithConfig(sqlCfg)
		if err != nil {
			return nil, fmt.Errorf("init sqlite index: %w", err)
		}
		return store, nil
	}
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	if o == nil {
		return Config{}
	}
	return o.cfg
}

// Vector exposes the opened vector store.
func (o *Orchestrator) Vector() vector.Store {
	if o == nil {
		return nil
	}
	return o.vector
}

// IndexError is the error from opening the index, if any.
func (o *Orchestrator) IndexError() error {
	if o == nil {
		return nil
	}
	return o.indexErr
}

// Provider exposes the model provider used for completions and embeddings.
func (o *Orchestrator) Provider() llm.Provider {
	if o == nil {
		return nil
	}
	return o.provider
}

func (o *Orchestrator) Retriever() *retriever.Retriever {
	return retriever.New(o.Provider(), o.Vector())
}

func (o *Orchestrator) Generator() *generator.Generator {
	return generator.New(o.Retriever(), o.Provider())
}

func (o *Orchestrator) Indexer(opts ...kb.Option) *kb.Indexer {
	return kb.NewIndexer(o.Provider(), o.Vector(), opts...)
}

// Close releases any resources associated with the orchestrator.
func (o *Orchestrator) Close() error {
	if o == nil {
		return nil
	}
	var err error
	for i := len(o.closers) - 1; i >= 0; i-- {
		closer := o.closers[i]
		if closer == nil {
			continue
		}
		if cerr := closer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

// unavailableStore stands in for an index that failed to open.
type unavailableStore struct {
	backend string
	err     error
}

func (u unavailableStore) Name() string    { return u.backend }
func (u unavailableStore) Available() bool { return false }
func (u unavailableStore) Close() error    { return nil }

func (u unavailableStore) Search(context.Context, []float32, int) ([]vector.SearchResult, error) {
	return nil, u.err
}

func (u unavailableStore) Upsert(context.Context, []vector.Document, [][]float32) error {
	return u.err
}
