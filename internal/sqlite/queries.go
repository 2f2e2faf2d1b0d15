// File path: internal/sqlite/queries.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

// ErrIndexEmpty is returned by Search when no snippets have been indexed.
var ErrIndexEmpty = errors.New("local index holds no snippets")

// Available reports whether the index holds at least one snippet.
func (s *Store) Available() bool {
	if s == nil || s.db == nil {
		return false
	}
	count, err := s.Count(context.Background())
	return err == nil && count > 0
}

// Count returns the number of indexed snippets.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlite store not initialised")
	}
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM snippets`); err != nil {
		return 0, fmt.Errorf("count snippets: %w", err)
	}
	return count, nil
}

// Search scores every snippet by cosine similarity and returns the best
// limit results. Rows are read in position order and sorted stably, so equal
// scores keep insertion order.
func (s *Store) Search(ctx context.Context, query []float32, limit int) ([]vector.SearchResult, error) {
	start := time.Now()
	results, err := s.search(ctx, query, limit)
	telemetry.RecordVectorSearch(err == nil, time.Since(start))
	return results, err
}

func (s *Store) search(ctx context.Context, query []float32, limit int) ([]vector.SearchResult, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	if len(query) == 0 {
		return nil, errors.New("query vector is empty")
	}
	if limit <= 0 {
		limit = 4
	}
	rows := []Snippet{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM snippets ORDER BY position`); err != nil {
		return nil, fmt.Errorf("select snippets: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrIndexEmpty
	}
	results := make([]vector.SearchResult, 0, len(rows))
	for _, row := range rows {
		if row.Dimension != len(query) {
			return nil, fmt.Errorf("snippet %s has dimension %d, query has %d", row.ID, row.Dimension, len(query))
		}
		embedding, err := decodeEmbedding(row.Embedding)
		if err != nil {
			return nil, fmt.Errorf("decode snippet %s: %w", row.ID, err)
		}
		results = append(results, vector.SearchResult{
			ID:       row.ID,
			Score:    vector.CosineSimilarity(query, embedding),
			Content:  row.Content,
			Metadata: decodeMetadata(row.Metadata),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// AuditLog returns the most recent audit entries, newest first.
func (s *Store) AuditLog(ctx context.Context, limit int) ([]AuditRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	if limit <= 0 {
		limit = 20
	}
	entries := []AuditRow{}
	if err := s.db.SelectContext(ctx, &entries, `SELECT id, action, COALESCE(detail, '') AS detail, created_at FROM audit ORDER BY id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select audit: %w", err)
	}
	return entries, nil
}

var _ vector.Store = (*Store)(nil)
