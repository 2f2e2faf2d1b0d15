// File path: internal/kb/types.go
package kb

import "github.com/google/uuid"

// Test bank column headers.
const (
	ColumnSlNo        = "Sl No."
	ColumnDescription = "Test Case Description"
	ColumnSteps       = "Execution Steps"
	ColumnExpected    = "Expected Result"
)

// DefaultChunkSize is the number of bank rows per indexed snippet.
const DefaultChunkSize = 3

// chunkNamespace scopes the name-based UUIDs given to snippets.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("xcgen/test-bank"))

// Row is one historical test case from the bank.
type Row struct {
	SlNo           string `json:"sl_no"`
	Description    string `json:"description"`
	ExecutionSteps string `json:"execution_steps"`
	ExpectedResult string `json:"expected_result"`
}
