// File path: internal/kb/indexer.go
package kb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

const defaultBatchSize = 32

// Embedder turns snippet texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, input []string) ([][]float32, error)
}

// Indexer embeds snippets and writes them to a vector store in batches.
type Indexer struct {
	embedder  Embedder
	store     vector.Store
	batchSize int
}

type Option func(*Indexer)

func WithBatchSize(n int) Option {
	return func(i *Indexer) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func NewIndexer(embedder Embedder, store vector.Store, opts ...Option) *Indexer {
	idx := &Indexer{embedder: embedder, store: store, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Index embeds and upserts docs. progress, when set, is called with the
// number of docs written after each batch. It returns how many docs were
// written before any error.
func (i *Indexer) Index(ctx context.Context, docs []vector.Document, progress func(done int)) (int, error) {
	if i.embedder == nil || i.store == nil {
		return 0, errors.New("indexer needs an embedder and a store")
	}
	logger := common.Logger()
	start := time.Now()
	done := 0
	for from := 0; from < len(docs); from += i.batchSize {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		to := from + i.batchSize
		if to > len(docs) {
			to = len(docs)
		}
		batch := docs[from:to]
		texts := make([]string, len(batch))
		for j, doc := range batch {
			texts[j] = doc.Content
		}
		vectors, err := i.embedder.Embed(ctx, texts)
		if err != nil {
			return done, fmt.Errorf("embed batch %d-%d: %w", from+1, to, err)
		}
		if len(vectors) != len(batch) {
			return done, fmt.Errorf("embed batch %d-%d: got %d vectors for %d docs", from+1, to, len(vectors), len(batch))
		}
		if err := i.store.Upsert(ctx, batch, vectors); err != nil {
			return done, fmt.Errorf("upsert batch %d-%d: %w", from+1, to, err)
		}
		done = to
		telemetry.RecordIndexedChunks(len(batch))
		if progress != nil {
			progress(done)
		}
		logger.Debug("kb: batch indexed", "from", from+1, "to", to)
	}
	logger.Info("kb: index build finished", "store", i.store.Name(), "chunks", done, "dur", time.Since(start))
	return done, nil
}
