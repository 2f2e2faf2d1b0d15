// File path: internal/data/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/llm"
	"github.com/nicodishanthj/xcgen/internal/sqlite"
	"github.com/nicodishanthj/xcgen/internal/testcase"
	"github.com/nicodishanthj/xcgen/internal/vector"
)

type stubProvider struct{}

func (stubProvider) Chat(context.Context, []llm.Message) (string, error) { return "", nil }
func (stubProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	out := make([][]float32, len(input))
	for i := range input {
		out[i] = []float32{1, 0}
	}
	return out, nil
}
func (stubProvider) Name() string { return "stub" }

func clearIndexEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"INDEX_BACKEND", "INDEX_PATH", "SQLITE_CONFIG_FILE", "LLM_CONFIG_FILE", "LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearIndexEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("LoadConfig defaults mismatch: %#v", cfg)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	clearIndexEnv(t)
	t.Setenv("INDEX_BACKEND", "Chroma")
	t.Setenv("INDEX_PATH", "/tmp/bank.db")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != BackendChroma || cfg.IndexPath != "/tmp/bank.db" {
		t.Fatalf("unexpected config %#v", cfg)
	}

	t.Setenv("INDEX_BACKEND", "faiss")
	if _, err := LoadConfig(); !apperrors.Is(err, apperrors.KindConfiguration) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	clearIndexEnv(t)
	_, err := New(context.Background(), Config{IndexPath: filepath.Join(t.TempDir(), "index.db")})
	if !apperrors.Is(err, apperrors.KindConfiguration) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestNewMissingIndexIsReportedOnRetrieve(t *testing.T) {
	clearIndexEnv(t)
	cfg := Config{IndexPath: filepath.Join(t.TempDir(), "missing.db")}
	orch, err := New(context.Background(), cfg, WithProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = orch.Close() })

	if !errors.Is(orch.IndexError(), sqlite.ErrIndexMissing) {
		t.Fatalf("expected ErrIndexMissing, got %v", orch.IndexError())
	}
	if orch.Vector().Available() {
		t.Fatalf("missing index must not be available")
	}
	req, err := testcase.NewGenerationRequest(testcase.Facets{InsuranceType: "Life", Region: "Asia Pacific", LineOfBusiness: "Enterprise"}, "Beneficiary change", 1)
	if err != nil {
		t.Fatalf("NewGenerationRequest: %v", err)
	}
	if _, err := orch.Retriever().Retrieve(context.Background(), req); !apperrors.Is(err, apperrors.KindIndexUnavailable) {
		t.Fatalf("expected IndexUnavailable, got %v", err)
	}
}

func TestIndexThenRetrieve(t *testing.T) {
	clearIndexEnv(t)
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	builder, err := New(ctx, Config{IndexPath: path, CreateIndex: true}, WithProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	docs := []vector.Document{{ID: "a", Content: "Test Case 1:\nDescription: x\n"}}
	if n, err := builder.Indexer().Index(ctx, docs, nil); err != nil || n != 1 {
		t.Fatalf("Index = %d, %v", n, err)
	}
	if err := builder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	orch, err := New(ctx, Config{IndexPath: path}, WithProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = orch.Close() })
	if orch.IndexError() != nil || orch.Vector().Name() != BackendSQLite {
		t.Fatalf("index not opened: %v", orch.IndexError())
	}
	req, _ := testcase.NewGenerationRequest(testcase.Facets{InsuranceType: "Auto", Region: "Europe", LineOfBusiness: "Retail"}, "Quote", 1)
	snippets, err := orch.Retriever().Retrieve(ctx, req)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(snippets) != 1 || snippets[0] != docs[0].Content {
		t.Fatalf("unexpected snippets %q", snippets)
	}
}

type closingStore struct {
	vector.Store
	closed bool
}

func (c *closingStore) Name() string { return "injected" }
func (c *closingStore) Close() error { c.closed = true; return nil }

func TestInjectedStoreIsNotClosed(t *testing.T) {
	clearIndexEnv(t)
	store := &closingStore{}
	orch, err := New(context.Background(), Config{}, WithVectorStore(store), WithProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if orch.Vector() != store {
		t.Fatalf("injected store not used")
	}
	if err := orch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if store.closed {
		t.Fatalf("orchestrator must not close stores it did not open")
	}
}
