// File path: internal/export/export_test.go
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/intake"
	"github.com/nicodishanthj/xcgen/internal/parser"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

func sampleCases() []testcase.TestCase {
	return []testcase.TestCase{
		{
			SlNo:           "1",
			RequirementID:  "REQ-001",
			TestCaseID:     "TC-001",
			Module:         "Quote",
			LOB:            "Retail",
			Region:         "Europe",
			Description:    "Verify premium calculation",
			ExecutionSteps: "Step1: Login\n\nStep2: Enter driver details\n\nStep3: Submit",
			ExpectedResult: "Premium shown correctly",
		},
		{
			SlNo:           "2",
			RequirementID:  "REQ-002",
			TestCaseID:     "TC-002",
			Module:         "Policy Issuance",
			LOB:            "Retail",
			Region:         "Europe",
			Description:    "Issue policy after payment",
			ExecutionSteps: "Step1: Pay\n\nStep2: Issue",
			ExpectedResult: "Policy document generated",
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleCases()[:1]); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "Test Case 1: Verify premium calculation\n" +
		"Sl No.: 1\n" +
		"Requirement ID: REQ-001\n" +
		"Test Case ID: TC-001\n" +
		"Module: Quote\n" +
		"Test Case Description: Verify premium calculation\n" +
		"Execution Steps:\nStep1: Login\n\nStep2: Enter driver details\n\nStep3: Submit\n" +
		"Expected Result: Premium shown correctly\n\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(buf.String(), "Retail") || strings.Contains(buf.String(), "Europe") {
		t.Fatalf("LOB and Region must not be exported")
	}
}

var textHeading = regexp.MustCompile(`(?m)^Test Case (\d+):`)

func TestTextExportReparses(t *testing.T) {
	cases := sampleCases()
	var buf bytes.Buffer
	if err := WriteText(&buf, cases); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	// Restore the bold block markers and the dropped facet lines.
	raw := textHeading.ReplaceAllString(buf.String(), "**Test Case $1:")
	raw = strings.ReplaceAll(raw, "Module: ", "LOB: Retail\nRegion: Europe\nModule: ")
	result := parser.Parse("\n" + raw)
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %+v", result.Diagnostics)
	}
	if diff := cmp.Diff(cases, result.Cases); diff != "" {
		t.Fatalf("re-parsed cases mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXLSX(t *testing.T) {
	cases := sampleCases()
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, cases); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{testcase.ExportLabels, cases[0].ExportValues(), cases[1].ExportValues()}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	// Steps column: longest cell is the first case's steps.
	width, err := f.GetColWidth(sheetName, "F")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if wantWidth := float64(len(cases[0].ExecutionSteps) + 2); width != wantWidth {
		t.Fatalf("steps width = %v, want %v", width, wantWidth)
	}
	// Sl No. column: the header is the longest cell.
	if width, _ := f.GetColWidth(sheetName, "A"); width != float64(len("Sl No.")+2) {
		t.Fatalf("sl no width = %v", width)
	}

	headerStyleID, err := f.GetCellStyle(sheetName, "G1")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	headerStyle, err := f.GetStyle(headerStyleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if headerStyle.Fill.Pattern != 1 || len(headerStyle.Fill.Color) == 0 || !strings.HasSuffix(strings.ToUpper(headerStyle.Fill.Color[0]), headerColor) {
		t.Fatalf("unexpected header fill %+v", headerStyle.Fill)
	}

	stepsStyleID, _ := f.GetCellStyle(sheetName, "F3")
	stepsStyle, err := f.GetStyle(stepsStyleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if stepsStyle.Alignment == nil || !stepsStyle.Alignment.WrapText || stepsStyle.Alignment.Vertical != "top" {
		t.Fatalf("unexpected steps alignment %+v", stepsStyle.Alignment)
	}
}

func TestWriteXLSXLongStepsClampWidth(t *testing.T) {
	tc := sampleCases()[0]
	steps := make([]string, 9)
	for i := range steps {
		steps[i] = fmt.Sprintf("Step%d: %s", i+1, strings.Repeat("x", 557))
	}
	tc.ExecutionSteps = strings.Join(steps, "\n\n")
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, []testcase.TestCase{tc}); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	width, err := f.GetColWidth(sheetName, "F")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width != excelize.MaxColumnWidth {
		t.Fatalf("steps width = %v, want %v", width, excelize.MaxColumnWidth)
	}
	rows, _ := f.GetRows(sheetName)
	if rows[1][5] != tc.ExecutionSteps {
		t.Fatalf("steps cell was truncated")
	}
}

// docxBlocks reads a rendered document back and splits it into one block
// per "Test Case N:" heading.
func docxBlocks(t *testing.T, data []byte) []string {
	t.Helper()
	text, err := intake.Extract(context.Background(), "out.docx", "", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read docx: %v", err)
	}
	locs := textHeading.FindAllStringIndex(text, -1)
	blocks := make([]string, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks[i] = text[loc[0]:end]
	}
	return blocks
}

var headingStyle = regexp.MustCompile(`w:pStyle w:val="Heading ?1"`)

func TestWriteDOCX(t *testing.T) {
	cases := sampleCases()
	var buf bytes.Buffer
	if err := WriteDOCX(&buf, cases); err != nil {
		t.Fatalf("WriteDOCX: %v", err)
	}
	blocks := docxBlocks(t, buf.Bytes())
	if len(blocks) != len(cases) {
		t.Fatalf("expected %d headings, got %d", len(cases), len(blocks))
	}
	want := strings.Join([]string{
		"Test Case 1: Verify premium calculation",
		"Sl No.: 1",
		"Requirement ID: REQ-001",
		"Test Case ID: TC-001",
		"Module: Quote",
		"Test Case Description: Verify premium calculation",
		"Execution Steps:",
		"Step1: Login\n\nStep2: Enter driver details\n\nStep3: Submit",
		"Expected Result: Premium shown correctly",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, blocks[0]); diff != "" {
		t.Fatalf("docx mismatch (-want +got):\n%s", diff)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	body, err := zr.Open("word/document.xml")
	if err != nil {
		t.Fatalf("open document.xml: %v", err)
	}
	defer body.Close()
	xml, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read document.xml: %v", err)
	}
	if n := len(headingStyle.FindAll(xml, -1)); n != len(cases) {
		t.Fatalf("expected %d Heading 1 paragraphs, got %d", len(cases), n)
	}
}

func TestAllFormatsCarrySameValues(t *testing.T) {
	cases := sampleCases()
	var text, sheet, word bytes.Buffer
	if err := WriteText(&text, cases); err != nil {
		t.Fatal(err)
	}
	if err := WriteXLSX(&sheet, cases); err != nil {
		t.Fatal(err)
	}
	if err := WriteDOCX(&word, cases); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(sheet.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows(sheetName)
	blocks := docxBlocks(t, word.Bytes())
	if len(blocks) != len(cases) {
		t.Fatalf("expected %d docx blocks, got %d", len(cases), len(blocks))
	}
	for i, tc := range cases {
		for j, value := range tc.ExportValues() {
			if rows[i+1][j] != value {
				t.Errorf("xlsx case %d column %d = %q, want %q", i, j, rows[i+1][j], value)
			}
			if !strings.Contains(text.String(), value) {
				t.Errorf("text export missing %q", value)
			}
			if !strings.Contains(blocks[i], value) {
				t.Errorf("docx case %d missing %q", i, value)
			}
		}
	}
}

func TestRenderRegistry(t *testing.T) {
	var buf bytes.Buffer
	f, err := Render(&buf, "TXT", sampleCases())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f.Filename != "test_cases.txt" || f.ContentType != "text/plain" {
		t.Fatalf("unexpected format %+v", f)
	}
	if x, ok := Lookup("xlsx"); !ok || x.Filename != "test_cases.xlsx" {
		t.Fatalf("xlsx lookup = %+v, %v", x, ok)
	}
	if d, ok := Lookup("docx"); !ok || d.Filename != "test_cases.docx" {
		t.Fatalf("docx lookup = %+v, %v", d, ok)
	}
	if diff := cmp.Diff([]string{"docx", "text", "xlsx"}, Formats()); diff != "" {
		t.Fatalf("Formats mismatch (-want +got):\n%s", diff)
	}
	if _, err := Render(&buf, "pdf", nil); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestEmptyExports(t *testing.T) {
	for _, name := range Formats() {
		var buf bytes.Buffer
		if _, err := Render(&buf, name, nil); err != nil {
			t.Fatalf("Render(%s, nil): %v", name, err)
		}
	}
}
