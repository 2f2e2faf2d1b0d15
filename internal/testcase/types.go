// File path: internal/testcase/types.go
package testcase

// TestCase is one generated QA test case. All fields are kept as text; the
// sequence number is not parsed to an integer.
type TestCase struct {
	SlNo           string `json:"sl_no"`
	RequirementID  string `json:"requirement_id"`
	TestCaseID     string `json:"test_case_id"`
	Module         string `json:"module"`
	LOB            string `json:"lob"`
	Region         string `json:"region"`
	Description    string `json:"description"`
	ExecutionSteps string `json:"execution_steps"`
	ExpectedResult string `json:"expected_result"`
}

// Field labels as they appear in model output and in exports.
const (
	LabelSlNo           = "Sl No."
	LabelRequirementID  = "Requirement ID"
	LabelTestCaseID     = "Test Case ID"
	LabelModule         = "Module"
	LabelLOB            = "LOB"
	LabelRegion         = "Region"
	LabelDescription    = "Test Case Description"
	LabelExecutionSteps = "Execution Steps"
	LabelExpectedResult = "Expected Result"
)

// ExportLabels lists the seven columns every export renders, in order.
// LOB and Region are intentionally absent.
var ExportLabels = []string{
	LabelSlNo,
	LabelRequirementID,
	LabelTestCaseID,
	LabelModule,
	LabelDescription,
	LabelExecutionSteps,
	LabelExpectedResult,
}

// ExportValues returns the case's values in ExportLabels order.
func (tc TestCase) ExportValues() []string {
	return []string{
		tc.SlNo,
		tc.RequirementID,
		tc.TestCaseID,
		tc.Module,
		tc.Description,
		tc.ExecutionSteps,
		tc.ExpectedResult,
	}
}

// MissingFields returns the labels of all empty fields.
func (tc TestCase) MissingFields() []string {
	fields := []struct {
		label string
		value string
	}{
		{LabelSlNo, tc.SlNo},
		{LabelRequirementID, tc.RequirementID},
		{LabelTestCaseID, tc.TestCaseID},
		{LabelModule, tc.Module},
		{LabelLOB, tc.LOB},
		{LabelRegion, tc.Region},
		{LabelDescription, tc.Description},
		{LabelExecutionSteps, tc.ExecutionSteps},
		{LabelExpectedResult, tc.ExpectedResult},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}

// Complete reports whether all nine fields are populated.
func (tc TestCase) Complete() bool {
	return len(tc.MissingFields()) == 0
}
