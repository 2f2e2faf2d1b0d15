// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/nicodishanthj/xcgen/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	vectorSearchTotal     *expvar.Int
	vectorSearchFailures  *expvar.Int
	vectorSearchLatencyMS *expvar.Int

	completionTotal     *expvar.Int
	completionFailures  *expvar.Int
	completionLatencyMS *expvar.Int

	casesParsed   *expvar.Int
	blocksDropped *expvar.Int

	exportsTotal *expvar.Map

	indexedChunks *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		vectorSearchTotal = expvar.NewInt("xcgen_vector_search_total")
		vectorSearchFailures = expvar.NewInt("xcgen_vector_search_failures")
		vectorSearchLatencyMS = expvar.NewInt("xcgen_vector_search_latency_ms")

		completionTotal = expvar.NewInt("xcgen_completion_total")
		completionFailures = expvar.NewInt("xcgen_completion_failures")
		completionLatencyMS = expvar.NewInt("xcgen_completion_latency_ms")

		casesParsed = expvar.NewInt("xcgen_cases_parsed_total")
		blocksDropped = expvar.NewInt("xcgen_blocks_dropped_total")

		exportsTotal = expvar.NewMap("xcgen_exports_total")

		indexedChunks = expvar.NewInt("xcgen_indexed_chunks_total")
	})
}

// StartSpan logs the start of a named stage and returns a function that logs its end.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...any)) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...any) {
		logger.Debug("trace: end", append([]any{"span", name, "dur", time.Since(sp.start)}, attrs...)...)
	}
}

// SpanDuration returns the elapsed time of the span stored in ctx, if any.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}

func RecordVectorSearch(ok bool, duration time.Duration) {
	ensureInit()
	vectorSearchTotal.Add(1)
	if !ok {
		vectorSearchFailures.Add(1)
	}
	if duration > 0 {
		vectorSearchLatencyMS.Add(duration.Milliseconds())
	}
}

func RecordCompletion(ok bool, duration time.Duration) {
	ensureInit()
	completionTotal.Add(1)
	if !ok {
		completionFailures.Add(1)
	}
	if duration > 0 {
		completionLatencyMS.Add(duration.Milliseconds())
	}
}

func RecordParse(kept, dropped int) {
	ensureInit()
	casesParsed.Add(int64(kept))
	blocksDropped.Add(int64(dropped))
}

func RecordExport(format string) {
	ensureInit()
	key := strings.ToLower(strings.TrimSpace(format))
	if key == "" {
		key = "unknown"
	}
	exportsTotal.Add(key, 1)
}

func RecordIndexedChunks(n int) {
	ensureInit()
	if n > 0 {
		indexedChunks.Add(int64(n))
	}
}
