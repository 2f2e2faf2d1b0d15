// File path: internal/parser/parser.go
package parser

import (
	"regexp"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

var (
	blockDelimiter = regexp.MustCompile(`\n\*\*Test Case \d+:`)
	slNoPattern    = regexp.MustCompile(`Sl No\.:[ \t]*(\d+)`)
	stepsPattern   = regexp.MustCompile(`(?s)Execution Steps:(.*?)\nExpected Result:`)
	expectedLabel  = regexp.MustCompile(`(?s)Expected Result:(.*)`)
	stepMarker     = regexp.MustCompile(`Step(\d+):`)

	fieldPatterns = map[string]*regexp.Regexp{}
	inlineLabels  = []string{
		testcase.LabelRequirementID,
		testcase.LabelTestCaseID,
		testcase.LabelModule,
		testcase.LabelLOB,
		testcase.LabelRegion,
		testcase.LabelDescription,
	}
)

// Diagnostic describes a block that was dropped because fields were missing.
type Diagnostic struct {
	Index   int      `json:"index"`
	Block   string   `json:"block"`
	Missing []string `json:"missing"`
}

// Err converts the diagnostic into a ParseIncomplete error.
func (d Diagnostic) Err() error {
	return apperrors.New(apperrors.KindParseIncomplete, "parser.block",
		"failed to parse block: missing "+strings.Join(d.Missing, ", "))
}

// Result holds the complete cases in order of appearance and one diagnostic per dropped block.
type Result struct {
	Cases       []testcase.TestCase `json:"test_cases"`
	Diagnostics []Diagnostic        `json:"diagnostics,omitempty"`
}

// Parse reshapes a raw completion into test cases. Blocks missing any of the
// nine fields are dropped; the rest are kept.
func Parse(raw string) Result {
	logger := common.Logger()
	result := Result{Cases: []testcase.TestCase{}}
	for idx, block := range SplitBlocks(raw) {
		tc := ParseBlock(block)
		if missing := tc.MissingFields(); len(missing) > 0 {
			diag := Diagnostic{Index: idx, Block: block, Missing: missing}
			logger.Warn("parser: dropping incomplete block", "index", idx, "missing", strings.Join(missing, ","), "block", block)
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}
		result.Cases = append(result.Cases, tc)
	}
	logger.Debug("parser: response parsed", "cases", len(result.Cases), "dropped", len(result.Diagnostics))
	return result
}

// SplitBlocks splits on "\n**Test Case N:" and discards the text before the first case.
func SplitBlocks(raw string) []string {
	parts := blockDelimiter.Split(raw, -1)
	if labels := labelsIn(parts[0]); len(labels) > 0 {
		common.Logger().Debug("parser: discarding text before first case that carries field labels",
			"labels", strings.Join(labels, ","), "prefix", parts[0])
	}
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

// ParseBlock extracts all nine fields from one block. Missing labels leave fields empty.
func ParseBlock(block string) testcase.TestCase {
	return testcase.TestCase{
		SlNo:           ExtractSlNo(block),
		RequirementID:  ExtractField(block, testcase.LabelRequirementID),
		TestCaseID:     ExtractField(block, testcase.LabelTestCaseID),
		Module:         ExtractField(block, testcase.LabelModule),
		LOB:            ExtractField(block, testcase.LabelLOB),
		Region:         ExtractField(block, testcase.LabelRegion),
		Description:    ExtractField(block, testcase.LabelDescription),
		ExecutionSteps: ExtractSteps(block),
		ExpectedResult: ExtractExpectedResult(block),
	}
}

// ExtractField returns the trimmed text after "<label>:" up to the end of that line.
func ExtractField(block, label string) string {
	match := fieldPattern(label).FindStringSubmatch(block)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// ExtractSlNo returns the digits following "Sl No.:".
func ExtractSlNo(block string) string {
	match := slNoPattern.FindStringSubmatch(block)
	if match == nil {
		return ""
	}
	return match[1]
}

// ExtractSteps returns the span between "Execution Steps:" and the nearest
// "Expected Result:" with one step per line and a blank line between steps.
func ExtractSteps(block string) string {
	match := stepsPattern.FindStringSubmatch(block)
	if match == nil {
		return ""
	}
	return FormatSteps(match[1])
}

// FormatSteps puts every "StepN:" marker on a new line and separates lines with
// exactly one blank line. Applying it twice gives the same result.
func FormatSteps(steps string) string {
	broken := stepMarker.ReplaceAllString(strings.TrimSpace(steps), "\nStep${1}:")
	lines := strings.Split(broken, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n\n")
}

// ExtractExpectedResult returns everything after the first "Expected Result:" label.
func ExtractExpectedResult(block string) string {
	match := expectedLabel.FindStringSubmatch(block)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func fieldPattern(label string) *regexp.Regexp {
	if re, ok := fieldPatterns[label]; ok {
		return re
	}
	return regexp.MustCompile(regexp.QuoteMeta(label) + `:[ \t]*([^\n]*)`)
}

// labelsIn names the field labels present in text, in field order.
func labelsIn(text string) []string {
	var found []string
	if slNoPattern.MatchString(text) {
		found = append(found, testcase.LabelSlNo)
	}
	for _, label := range inlineLabels {
		if fieldPatterns[label].MatchString(text) {
			found = append(found, label)
		}
	}
	return found
}

func init() {
	for _, label := range inlineLabels {
		fieldPatterns[label] = regexp.MustCompile(regexp.QuoteMeta(label) + `:[ \t]*([^\n]*)`)
	}
}
