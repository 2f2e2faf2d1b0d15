// File path: internal/export/export.go
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/common/telemetry"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

// RenderFunc writes cases in one download format. Renderers never mutate cases.
type RenderFunc func(w io.Writer, cases []testcase.TestCase) error

// Format describes a download: its fixed filename and content type.
type Format struct {
	Name        string
	Filename    string
	ContentType string
	render      RenderFunc
}

const (
	FormatText = "text"
	FormatXLSX = "xlsx"
	FormatDOCX = "docx"
)

var registry = map[string]Format{
	FormatText: {
		Name:        FormatText,
		Filename:    "test_cases.txt",
		ContentType: "text/plain",
		render:      WriteText,
	},
	FormatXLSX: {
		Name:        FormatXLSX,
		Filename:    "test_cases.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		render:      WriteXLSX,
	},
	FormatDOCX: {
		Name:        FormatDOCX,
		Filename:    "test_cases.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		render:      WriteDOCX,
	},
}

// Lookup resolves a format by name. "txt" is accepted for text.
func Lookup(name string) (Format, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "txt" {
		key = FormatText
	}
	f, ok := registry[key]
	return f, ok
}

// Formats lists the registered format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes cases in the named format.
func Render(w io.Writer, name string, cases []testcase.TestCase) (Format, error) {
	const op = "export.render"
	f, ok := Lookup(name)
	if !ok {
		return Format{}, apperrors.New(apperrors.KindInvalidInput, op,
			fmt.Sprintf("unknown export format %q (want one of %s)", name, strings.Join(Formats(), ", ")))
	}
	if err := f.render(w, cases); err != nil {
		return Format{}, fmt.Errorf("render %s: %w", f.Name, err)
	}
	telemetry.RecordExport(f.Name)
	return f, nil
}

func heading(tc testcase.TestCase) string {
	return fmt.Sprintf("Test Case %s: %s", tc.SlNo, tc.Description)
}
