// File path: internal/api/types.go
package api

import (
	"errors"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/parser"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

type generateRequest struct {
	InsuranceType  string `json:"insurance_type"`
	Region         string `json:"region"`
	LineOfBusiness string `json:"line_of_business"`
	Requirements   string `json:"requirements"`
	Count          *int   `json:"count"`
}

type generateResponse struct {
	TestCases   []testcase.TestCase `json:"test_cases"`
	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Context     []string            `json:"context"`
	RawResponse string              `json:"raw_response"`
	Requested   int                 `json:"requested"`
}

type exportRequest struct {
	TestCases []testcase.TestCase `json:"test_cases"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Kind     string   `json:"kind,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func asAppError(err error) *apperrors.Error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
