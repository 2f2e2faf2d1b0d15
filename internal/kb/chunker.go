// File path: internal/kb/chunker.go
package kb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nicodishanthj/xcgen/internal/vector"
)

// ChunkTestBank groups consecutive rows into snippets of size rows each. The
// last snippet may be shorter. Identical content always gets the same id.
func ChunkTestBank(rows []Row, size int) []vector.Document {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var docs []vector.Document
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		parts := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			parts = append(parts, renderRow(row))
		}
		content := strings.Join(parts, "\n")
		docs = append(docs, vector.Document{
			ID:      buildDocID(content),
			Content: content,
			Metadata: map[string]string{
				"rows":  fmt.Sprintf("%d-%d", start+1, end),
				"chunk": strconv.Itoa(len(docs)),
			},
		})
	}
	return docs
}

func renderRow(row Row) string {
	return fmt.Sprintf("Test Case %s:\nDescription: %s\nSteps: %s\nExpected Result: %s\n",
		row.SlNo, row.Description, row.ExecutionSteps, row.ExpectedResult)
}

func buildDocID(content string) string {
	return uuid.NewSHA1(chunkNamespace, []byte(content)).String()
}
