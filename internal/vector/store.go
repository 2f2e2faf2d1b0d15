// File path: internal/vector/store.go
package vector

import (
	"context"
	"math"
)

// Store is a similarity index over historical test-case snippets.
type Store interface {
	Name() string
	Available() bool
	// Search returns up to limit results, highest similarity first. Ties keep
	// insertion order.
	Search(ctx context.Context, vector []float32, limit int) ([]SearchResult, error)
	// Upsert is used only by the offline index build.
	Upsert(ctx context.Context, docs []Document, vectors [][]float32) error
	Close() error
}

// Document is one indexed snippet.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

type SearchResult struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]any
}

// CosineSimilarity returns 0 for mismatched or zero-length vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
