// File path: internal/export/text.go
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nicodishanthj/xcgen/internal/testcase"
)

// WriteText renders the plain-text download: a heading line, the seven
// labelled fields, then a blank line per case.
func WriteText(w io.Writer, cases []testcase.TestCase) error {
	bw := bufio.NewWriter(w)
	for _, tc := range cases {
		fmt.Fprintf(bw, "%s\n", heading(tc))
		fmt.Fprintf(bw, "%s: %s\n", testcase.LabelSlNo, tc.SlNo)
		fmt.Fprintf(bw, "%s: %s\n", testcase.LabelRequirementID, tc.RequirementID)
		fmt.Fprintf(bw, "%s: %s\n", testcase.LabelTestCaseID, tc.TestCaseID)
		fmt.Fprintf(bw, "%s: %s\n", testcase.LabelModule, tc.Module)
		fmt.Fprintf(bw, "%s: %s\n", testcase.LabelDescription, tc.Description)
		fmt.Fprintf(bw, "%s:\n%s\n", testcase.LabelExecutionSteps, tc.ExecutionSteps)
		fmt.Fprintf(bw, "%s: %s\n\n", testcase.LabelExpectedResult, tc.ExpectedResult)
	}
	return bw.Flush()
}
