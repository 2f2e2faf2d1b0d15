// File path: internal/sqlite/mapper.go
package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/xcgen/internal/vector"
)

// Upsert stores snippets with their embeddings in a single transaction. A
// re-indexed id keeps its original position.
func (s *Store) Upsert(ctx context.Context, docs []vector.Document, vectors [][]float32) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if s.readOnly {
		return ErrReadOnly
	}
	if len(docs) == 0 {
		return nil
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("sqlite upsert: %d docs but %d vectors", len(docs), len(vectors))
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for i, doc := range docs {
			if err := upsertSnippet(ctx, tx, doc, vectors[i]); err != nil {
				return err
			}
		}
		return recordAudit(ctx, tx, "snippets_upserted", fmt.Sprintf("%d snippets", len(docs)))
	})
}

func upsertSnippet(ctx context.Context, tx *sqlx.Tx, doc vector.Document, embedding []float32) error {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return errors.New("snippet id required")
	}
	if len(embedding) == 0 {
		return fmt.Errorf("snippet %s has no embedding", id)
	}
	meta, err := encodeMetadata(doc.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata %s: %w", id, err)
	}
	query := `INSERT INTO snippets(id, content, metadata, dimension, embedding)
                VALUES(?, ?, ?, ?, ?)
                ON CONFLICT(id) DO UPDATE SET
                        content = excluded.content,
                        metadata = excluded.metadata,
                        dimension = excluded.dimension,
                        embedding = excluded.embedding,
                        updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, query, id, doc.Content, meta, len(embedding), encodeEmbedding(embedding)); err != nil {
		return fmt.Errorf("upsert snippet %s: %w", id, err)
	}
	return nil
}

func recordAudit(ctx context.Context, tx *sqlx.Tx, action, detail string) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO audit(action, detail) VALUES(?, ?)`, action, nullIfEmpty(detail)); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Embeddings are stored as little-endian float32.
func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob has %d bytes", len(buf))
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v, nil
}

func encodeMetadata(meta map[string]string) (interface{}, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeMetadata(raw *string) map[string]any {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(*raw), &meta); err != nil {
		return nil
	}
	return meta
}

func nullIfEmpty(value string) interface{} {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
