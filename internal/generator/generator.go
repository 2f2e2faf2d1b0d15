// File path: internal/generator/generator.go
package generator

import (
	"context"
	"strings"
	"time"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/llm"
	"github.com/nicodishanthj/xcgen/internal/parser"
	"github.com/nicodishanthj/xcgen/internal/prompt"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

// ContextRetriever returns historical snippets for a request.
type ContextRetriever interface {
	Retrieve(ctx context.Context, req testcase.GenerationRequest) ([]string, error)
}

// Result is everything one generation produced. The caller owns it; nothing
// is kept between runs.
type Result struct {
	Request     testcase.GenerationRequest `json:"-"`
	Context     []string                   `json:"context"`
	Prompt      string                     `json:"prompt"`
	RawResponse string                     `json:"raw_response"`
	Cases       []testcase.TestCase        `json:"test_cases"`
	Diagnostics []parser.Diagnostic        `json:"diagnostics,omitempty"`
}

type Generator struct {
	retriever ContextRetriever
	provider  llm.Provider
}

func New(retriever ContextRetriever, provider llm.Provider) *Generator {
	return &Generator{retriever: retriever, provider: provider}
}

// Generate runs retrieve, compose, complete and parse once. A request
// without requirement text is rejected before any external call.
func (g *Generator) Generate(ctx context.Context, req testcase.GenerationRequest) (Result, error) {
	const op = "generator.generate"
	if strings.TrimSpace(req.Requirements()) == "" {
		return Result{}, apperrors.New(apperrors.KindInvalidInput, op, testcase.MsgMissingRequirements)
	}
	if g == nil || g.retriever == nil {
		return Result{}, apperrors.New(apperrors.KindIndexUnavailable, op, "Vector index is not loaded")
	}
	ctx, end := telemetry.StartSpan(ctx, op)
	defer end()

	logger := common.Logger()
	start := time.Now()
	facets := req.Facets()
	logger.Info("generator: run started",
		"insurance_type", facets.InsuranceType,
		"region", facets.Region,
		"lob", facets.LineOfBusiness,
		"count", req.Count(),
	)

	result := Result{Request: req}
	snippets, err := g.retriever.Retrieve(ctx, req)
	if err != nil {
		return result, err
	}
	result.Context = snippets

	text, err := prompt.Compose(req, snippets)
	if err != nil {
		return result, err
	}
	result.Prompt = text

	raw, err := llm.Complete(ctx, g.provider, text)
	if err != nil {
		return result, err
	}
	result.RawResponse = raw

	parsed := parser.Parse(raw)
	result.Cases = parsed.Cases
	result.Diagnostics = parsed.Diagnostics
	telemetry.RecordParse(len(parsed.Cases), len(parsed.Diagnostics))

	logger.Info("generator: run finished",
		"requested", req.Count(),
		"parsed", len(result.Cases),
		"dropped", len(result.Diagnostics),
		"dur", time.Since(start),
	)
	if len(result.Cases) == 0 {
		logger.Warn("generator: no test cases parsed", "raw_length", len(raw))
	}
	return result, nil
}
