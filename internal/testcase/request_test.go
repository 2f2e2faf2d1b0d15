// File path: internal/testcase/request_test.go
package testcase

import (
	"testing"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
)

var validFacets = Facets{InsuranceType: "Auto", Region: "ANZ", LineOfBusiness: "Retail"}

func TestNewGenerationRequestRejectsEmptyRequirements(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := NewGenerationRequest(validFacets, text, 5)
		if !apperrors.Is(err, apperrors.KindInvalidInput) {
			t.Fatalf("requirements %q: expected invalid input, got %v", text, err)
		}
	}
}

func TestNewGenerationRequestCountBounds(t *testing.T) {
	tests := []struct {
		count int
		ok    bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{20, true},
		{21, false},
	}
	for _, tt := range tests {
		_, err := NewGenerationRequest(validFacets, "Premium must be recalculated", tt.count)
		if tt.ok && err != nil {
			t.Errorf("count %d: unexpected error %v", tt.count, err)
		}
		if !tt.ok && !apperrors.Is(err, apperrors.KindInvalidInput) {
			t.Errorf("count %d: expected invalid input, got %v", tt.count, err)
		}
	}
}

func TestNewGenerationRequestNormalizesFacets(t *testing.T) {
	req, err := NewGenerationRequest(Facets{InsuranceType: " home ", Region: "asia pacific", LineOfBusiness: "COMMERCIAL"}, "  Flood cover excluded  ", 3)
	if err != nil {
		t.Fatalf("NewGenerationRequest: %v", err)
	}
	want := Facets{InsuranceType: "Home", Region: "Asia Pacific", LineOfBusiness: "Commercial"}
	if req.Facets() != want {
		t.Fatalf("Facets() = %#v, want %#v", req.Facets(), want)
	}
	if req.Requirements() != "Flood cover excluded" {
		t.Fatalf("Requirements() = %q", req.Requirements())
	}
	if got := req.Query(); got != "Home Asia Pacific Commercial Flood cover excluded" {
		t.Fatalf("Query() = %q", got)
	}
	if req.Count() != 3 {
		t.Fatalf("Count() = %d", req.Count())
	}
}

func TestNewGenerationRequestUnknownFacet(t *testing.T) {
	_, err := NewGenerationRequest(Facets{InsuranceType: "Pet", Region: "ANZ", LineOfBusiness: "Retail"}, "text", 1)
	if !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMissingFields(t *testing.T) {
	tc := TestCase{
		SlNo:           "1",
		RequirementID:  "REQ-001",
		TestCaseID:     "TC-001",
		LOB:            "Retail",
		Region:         "ANZ",
		Description:    "Validate premium calc",
		ExecutionSteps: "Step1: Enter policy details",
		ExpectedResult: "Premium shown correctly",
	}
	missing := tc.MissingFields()
	if len(missing) != 1 || missing[0] != LabelModule {
		t.Fatalf("MissingFields() = %v", missing)
	}
	if tc.Complete() {
		t.Fatalf("case without module must not be complete")
	}
	tc.Module = "Policy Binding"
	if !tc.Complete() {
		t.Fatalf("expected complete case")
	}
	if got := len(tc.ExportValues()); got != len(ExportLabels) {
		t.Fatalf("ExportValues() has %d values, want %d", got, len(ExportLabels))
	}
}
