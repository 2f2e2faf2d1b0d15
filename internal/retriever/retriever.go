// File path: internal/retriever/retriever.go
package retriever

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/testcase"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

// K is the number of historical snippets fed into every prompt.
const K = 4

// Embedder describes the minimal contract needed to generate vectors for
// queries against a vector store.
type Embedder interface {
	Embed(ctx context.Context, input []string) ([][]float32, error)
}

// Retriever looks up the nearest historical test cases for a request. It is
// read-only and safe for concurrent use when its store is.
type Retriever struct {
	embedder Embedder
	store    vector.Store
}

func New(embedder Embedder, store vector.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to K snippet texts, most similar first. Any failure to
// embed or search is an IndexUnavailable error; there is no context-free
// fallback.
func (r *Retriever) Retrieve(ctx context.Context, req testcase.GenerationRequest) ([]string, error) {
	const op = "retriever.retrieve"
	if r == nil || r.store == nil {
		return nil, apperrors.New(apperrors.KindIndexUnavailable, op, "Vector index is not loaded")
	}
	if r.embedder == nil {
		return nil, apperrors.New(apperrors.KindIndexUnavailable, op, "No embedding provider configured")
	}
	ctx, end := telemetry.StartSpan(ctx, "retriever.retrieve")
	defer end()

	logger := common.Logger()
	query := req.Query()
	start := time.Now()
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		logger.Error("retriever: embed query failed", "error", err)
		return nil, apperrors.Wrapf(apperrors.KindIndexUnavailable, op, err, "Could not embed the query")
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, apperrors.Wrapf(apperrors.KindIndexUnavailable, op, errors.New("empty embedding"), "Could not embed the query")
	}
	results, err := r.store.Search(ctx, vectors[0], K)
	if err != nil {
		logger.Error("retriever: search failed", "store", r.store.Name(), "error", err)
		return nil, apperrors.Wrapf(apperrors.KindIndexUnavailable, op, err, "Vector index unavailable")
	}
	snippets := make([]string, 0, len(results))
	for _, res := range results {
		if strings.TrimSpace(res.Content) == "" {
			continue
		}
		snippets = append(snippets, res.Content)
	}
	logger.Info("retriever: context retrieved",
		"store", r.store.Name(),
		"snippets", len(snippets),
		"query_length", len(query),
		"dur", time.Since(start),
	)
	return snippets, nil
}
