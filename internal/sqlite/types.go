// File path: internal/sqlite/types.go
package sqlite

import "time"

// Snippet is one indexed test-bank chunk.
type Snippet struct {
	Position  int64     `db:"position"`
	ID        string    `db:"id"`
	Content   string    `db:"content"`
	Metadata  *string   `db:"metadata"`
	Dimension int       `db:"dimension"`
	Embedding []byte    `db:"embedding"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AuditRow represents an audit entry.
type AuditRow struct {
	ID        int64     `db:"id"`
	Action    string    `db:"action"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}
