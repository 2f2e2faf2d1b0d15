// File path: cmd/xcgen/generate.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/data/orchestrator"
	"github.com/nicodishanthj/xcgen/internal/export"
	"github.com/nicodishanthj/xcgen/internal/intake"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

type generateFlags struct {
	insuranceType  string
	region         string
	lineOfBusiness string
	requirements   string
	file           string
	count          int
	format         string
	out            string
	showRaw        bool
}

func newGenerateCommand(flags *rootFlags) *cobra.Command {
	opts := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate test cases from requirements and write an export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), flags, opts)
		},
	}
	cmd.Flags().StringVar(&opts.insuranceType, "insurance-type", testcase.InsuranceTypes[0], "one of "+strings.Join(testcase.InsuranceTypes, ", "))
	cmd.Flags().StringVar(&opts.region, "region", testcase.Regions[0], "one of "+strings.Join(testcase.Regions, ", "))
	cmd.Flags().StringVar(&opts.lineOfBusiness, "lob", testcase.LinesOfBusiness[0], "one of "+strings.Join(testcase.LinesOfBusiness, ", "))
	cmd.Flags().StringVarP(&opts.requirements, "requirements", "r", "", "requirement text")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "requirements file (txt, csv or docx); wins over --requirements")
	cmd.Flags().IntVarP(&opts.count, "count", "n", testcase.DefaultCount, fmt.Sprintf("number of test cases (%d-%d)", testcase.MinCount, testcase.MaxCount))
	cmd.Flags().StringVar(&opts.format, "format", export.FormatText, "export format: "+strings.Join(export.Formats(), ", "))
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output path (default the format's file name; - for stdout)")
	cmd.Flags().BoolVar(&opts.showRaw, "raw", false, "print the raw model response")
	return cmd
}

func runGenerate(ctx context.Context, flags *rootFlags, opts *generateFlags) error {
	format, ok := export.Lookup(opts.format)
	if !ok {
		return apperrors.New(apperrors.KindInvalidInput, "cli.generate",
			fmt.Sprintf("unknown export format %q (want %s)", opts.format, strings.Join(export.Formats(), ", ")))
	}

	requirements := opts.requirements
	if strings.TrimSpace(opts.file) != "" {
		blob, err := readRequirementsFile(ctx, opts.file)
		if err != nil {
			color.Yellow("warning: %s", userMessage(err))
		}
		requirements = intake.Resolve(blob, requirements)
	}
	req, err := testcase.NewGenerationRequest(testcase.Facets{
		InsuranceType:  opts.insuranceType,
		Region:         opts.region,
		LineOfBusiness: opts.lineOfBusiness,
	}, requirements, opts.count)
	if err != nil {
		return err
	}

	cfg, err := flags.orchestratorConfig()
	if err != nil {
		return err
	}
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

	result, err := orch.Generator().Generate(ctx, req)
	if err != nil {
		return err
	}
	if opts.showRaw {
		fmt.Fprintln(os.Stderr, color.CyanString("Raw response:"))
		fmt.Fprintln(os.Stderr, result.RawResponse)
	}
	for _, diag := range result.Diagnostics {
		color.Yellow("warning: test case block %d skipped: missing %s", diag.Index+1, strings.Join(diag.Missing, ", "))
	}
	if len(result.Cases) == 0 {
		color.Red("No test cases could be parsed from the response")
		return nil
	}

	out := strings.TrimSpace(opts.out)
	if out == "" {
		out = format.Filename
	}
	if out == "-" {
		if _, err := export.Render(os.Stdout, format.Name, result.Cases); err != nil {
			return err
		}
	} else if err := writeExport(out, format.Name, result.Cases); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s %d of %d requested test cases",
		color.GreenString("✓ Generated"), len(result.Cases), req.Count())
	if out != "-" {
		fmt.Fprintf(os.Stderr, " -> %s", color.CyanString(out))
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func readRequirementsFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindFileRead, "cli.generate", err, "File error: could not open %s", path)
	}
	defer f.Close()
	return intake.Extract(ctx, filepath.Base(path), "", f)
}

// writeExport renders into a temp file next to path and renames it into
// place once the export is complete.
func writeExport(path, format string, cases []testcase.TestCase) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".xcgen-export-*")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := export.Render(tmp, format, cases); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func userMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.UserMessage()
	}
	return err.Error()
}
