// File path: internal/kb/indexer_test.go
package kb

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nicodishanthj/xcgen/internal/vector"
)

const bankCSV = "\ufeffSl No.,Test Case Description,Execution Steps,Expected Result,Owner\n" +
	"1,Quote auto policy,\"Step1: Login\nStep2: Quote\",Quote shown,qa\n" +
	"2,Renew home policy,Step1: Renew,Renewal issued,qa\n" +
	",,,,\n" +
	"3,Cancel life policy,Step1: Cancel,Policy cancelled,qa\n" +
	"4,Add health rider,Step1: Add rider,Rider added,qa\n"

func TestLoadTestBank(t *testing.T) {
	rows, err := LoadTestBank(strings.NewReader(bankCSV))
	if err != nil {
		t.Fatalf("LoadTestBank: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	want := Row{SlNo: "1", Description: "Quote auto policy", ExecutionSteps: "Step1: Login\nStep2: Quote", ExpectedResult: "Quote shown"}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadTestBankMissingColumns(t *testing.T) {
	_, err := LoadTestBank(strings.NewReader("Sl No.,Description\n1,x\n"))
	if err == nil || !strings.Contains(err.Error(), ColumnSteps) {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if _, err := LoadTestBank(strings.NewReader("")); err == nil {
		t.Fatalf("expected empty bank error")
	}
}

func TestChunkTestBank(t *testing.T) {
	rows, err := LoadTestBank(strings.NewReader(bankCSV))
	if err != nil {
		t.Fatalf("LoadTestBank: %v", err)
	}
	docs := ChunkTestBank(rows, 3)
	if len(docs) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(docs))
	}
	wantFirst := "Test Case 1:\nDescription: Quote auto policy\nSteps: Step1: Login\nStep2: Quote\nExpected Result: Quote shown\n" +
		"\nTest Case 2:\nDescription: Renew home policy\nSteps: Step1: Renew\nExpected Result: Renewal issued\n" +
		"\nTest Case 3:\nDescription: Cancel life policy\nSteps: Step1: Cancel\nExpected Result: Policy cancelled\n"
	if diff := cmp.Diff(wantFirst, docs[0].Content); diff != "" {
		t.Fatalf("chunk mismatch (-want +got):\n%s", diff)
	}
	if docs[0].Metadata["rows"] != "1-3" || docs[1].Metadata["rows"] != "4-4" {
		t.Fatalf("unexpected metadata %v / %v", docs[0].Metadata, docs[1].Metadata)
	}
	again := ChunkTestBank(rows, 3)
	if docs[0].ID != again[0].ID || docs[0].ID == docs[1].ID {
		t.Fatalf("ids must be deterministic and distinct")
	}
}

type fakeEmbedder struct {
	batches [][]string
	failAt  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, input []string) ([][]float32, error) {
	f.batches = append(f.batches, input)
	if f.failAt > 0 && len(f.batches) == f.failAt {
		return nil, errors.New("embedding endpoint down")
	}
	out := make([][]float32, len(input))
	for i := range input {
		out[i] = []float32{float32(len(input[i])), 1}
	}
	return out, nil
}

type memoryStore struct {
	docs []vector.Document
}

func (m *memoryStore) Name() string    { return "memory" }
func (m *memoryStore) Available() bool { return len(m.docs) > 0 }
func (m *memoryStore) Close() error    { return nil }
func (m *memoryStore) Search(context.Context, []float32, int) ([]vector.SearchResult, error) {
	return nil, nil
}
func (m *memoryStore) Upsert(ctx context.Context, docs []vector.Document, vectors [][]float32) error {
	m.docs = append(m.docs, docs...)
	return nil
}

func makeDocs(n int) []vector.Document {
	docs := make([]vector.Document, n)
	for i := range docs {
		docs[i] = vector.Document{ID: string(rune('a' + i)), Content: strings.Repeat("x", i+1)}
	}
	return docs
}

func TestIndexerBatches(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &memoryStore{}
	var progress []int
	n, err := NewIndexer(embedder, store, WithBatchSize(2)).Index(context.Background(), makeDocs(5), func(done int) {
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if n != 5 || len(store.docs) != 5 {
		t.Fatalf("indexed %d, stored %d", n, len(store.docs))
	}
	if diff := cmp.Diff([]int{2, 4, 5}, progress); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if len(embedder.batches) != 3 {
		t.Fatalf("expected 3 embed calls, got %d", len(embedder.batches))
	}
}

func TestIndexerStopsOnEmbedError(t *testing.T) {
	embedder := &fakeEmbedder{failAt: 2}
	store := &memoryStore{}
	n, err := NewIndexer(embedder, store, WithBatchSize(2)).Index(context.Background(), makeDocs(5), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if n != 2 || len(store.docs) != 2 {
		t.Fatalf("expected first batch only, got n=%d stored=%d", n, len(store.docs))
	}
}
