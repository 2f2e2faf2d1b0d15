// File path: cmd/xcgen/index.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
	"github.com/nicodishanthj/xcgen/internal/kb"
	"github.com/nicodishanthj/xcgen/internal/sqlite"
)

func newIndexCommand(flags *rootFlags) *cobra.Command {
	var (
		bankPath  string
		chunkSize int
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index from a historical test bank CSV",
		Long:  "Reads a CSV with Sl No, Test Case Description, Execution Steps and Expected Result columns, chunks it and writes the embeddings to the selected backend. Re-running replaces chunks in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), flags, bankPath, chunkSize, batchSize)
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "test.csv", "historical test bank CSV")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", kb.DefaultChunkSize, "test bank rows per indexed chunk")
	cmd.Flags().IntVar(&batchSize, "batch-size", 32, "chunks per embedding request")
	return cmd
}

func runIndex(ctx context.Context, flags *rootFlags, bankPath string, chunkSize, batchSize int) error {
	logger := common.Logger()
	f, err := os.Open(bankPath)
	if err != nil {
		return fmt.Errorf("open test bank: %w", err)
	}
	rows, err := kb.LoadTestBank(f)
	f.Close()
	if err != nil {
		return err
	}
	docs := kb.ChunkTestBank(rows, chunkSize)
	logger.Info("xcgen: test bank loaded", "path", bankPath, "rows", len(rows), "chunks", len(docs))
	if len(docs) == 0 {
		color.Yellow("No rows found in %s; nothing to index", bankPath)
		return nil
	}

	cfg, err := flags.orchestratorConfig()
	if err != nil {
		return err
	}
	cfg.CreateIndex = true
	stopChroma, err := startChroma(ctx, flags, cfg.Backend)
	if err != nil {
		return err
	}
	defer stopChroma()
	orch, err := orchestrator.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer orch.Close()
	if err := orch.IndexError(); err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription(color.CyanString("Indexing chunks:")),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	written, err := orch.Indexer(kb.WithBatchSize(batchSize)).Index(ctx, docs, func(done int) {
		_ = bar.Set(done)
	})
	if err != nil {
		color.Red("✗ Indexed %d of %d chunks before failing", written, len(docs))
		return err
	}
	_ = bar.Finish()
	fmt.Fprintf(os.Stderr, "%s %d chunks from %d rows into %s\n",
		color.GreenString("✓ Indexed"), written, len(rows), color.CyanString(cfg.Backend))

	if store, ok := orch.Vector().(*sqlite.Store); ok {
		printAudit(ctx, store)
	}
	return nil
}

func printAudit(ctx context.Context, store *sqlite.Store) {
	count, err := store.Count(ctx)
	if err == nil {
		fmt.Fprintf(os.Stderr, "%s %s holds %d chunks\n", color.CyanString("Index:"), store.Path(), count)
	}
	entries, err := store.AuditLog(ctx, 5)
	if err != nil {
		common.Logger().Warn("xcgen: audit log unavailable", "error", err)
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(os.Stderr, "  %s %s %s\n",
			entry.CreatedAt.Format("2006-01-02 15:04:05"), color.YellowString(entry.Action), entry.Detail)
	}
}
