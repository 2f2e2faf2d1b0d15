// File path: internal/export/docx.go
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nicodishanthj/xcgen/internal/testcase"
)

// WriteDOCX renders one Heading 1 per case followed by a paragraph per field.
// The steps get their own paragraph with line breaks kept.
func WriteDOCX(w io.Writer, cases []testcase.TestCase) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}
	for _, tc := range cases {
		if _, err := doc.AddHeading(heading(tc), 1); err != nil {
			return fmt.Errorf("docx heading: %w", err)
		}
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelSlNo, tc.SlNo))
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelRequirementID, tc.RequirementID))
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelTestCaseID, tc.TestCaseID))
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelModule, tc.Module))
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelDescription, tc.Description))
		doc.AddParagraph(testcase.LabelExecutionSteps + ":")
		addLines(doc, tc.ExecutionSteps)
		doc.AddParagraph(fmt.Sprintf("%s: %s", testcase.LabelExpectedResult, tc.ExpectedResult))
		doc.AddParagraph("")
	}
	return saveTo(w, doc)
}

// addLines writes text as one paragraph, turning each "\n" into a line break.
func addLines(doc *docx.RootDoc, text string) {
	lines := strings.Split(text, "\n")
	p := doc.AddParagraph(lines[0])
	for _, line := range lines[1:] {
		p.AddText("").AddBreak(nil)
		if line != "" {
			p.AddText(line)
		}
	}
}

// saveTo packs the document through a temp file; the library saves by path.
func saveTo(w io.Writer, doc *docx.RootDoc) error {
	tmp, err := os.CreateTemp("", "xcgen-*.docx")
	if err != nil {
		return fmt.Errorf("docx temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen docx: %w", err)
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
