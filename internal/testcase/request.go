// File path: internal/testcase/request.go
package testcase

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
)

const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = 5
)

// MsgMissingRequirements is shown when neither a file nor typed text was given.
const MsgMissingRequirements = "Please input requirements first!"

var (
	InsuranceTypes  = []string{"Auto", "Health", "Home", "Life"}
	Regions         = []string{"North America", "Europe", "Asia Pacific", "ANZ"}
	LinesOfBusiness = []string{"Retail", "Commercial", "Enterprise"}
)

// Facets are the categorical inputs chosen alongside the requirement text.
type Facets struct {
	InsuranceType  string `json:"insurance_type"`
	Region         string `json:"region"`
	LineOfBusiness string `json:"line_of_business"`
}

// GenerationRequest is built once per user action and never mutated.
type GenerationRequest struct {
	facets       Facets
	requirements string
	count        int
}

// NewGenerationRequest validates intake input. Empty requirements are rejected
// before anything downstream runs.
func NewGenerationRequest(facets Facets, requirements string, count int) (GenerationRequest, error) {
	const op = "intake.request"
	requirements = strings.TrimSpace(requirements)
	if requirements == "" {
		return GenerationRequest{}, apperrors.New(apperrors.KindInvalidInput, op, MsgMissingRequirements)
	}
	if count < MinCount || count > MaxCount {
		return GenerationRequest{}, apperrors.New(apperrors.KindInvalidInput, op,
			fmt.Sprintf("number of test cases must be between %d and %d, got %d", MinCount, MaxCount, count))
	}
	normalized := Facets{
		InsuranceType:  strings.TrimSpace(facets.InsuranceType),
		Region:         strings.TrimSpace(facets.Region),
		LineOfBusiness: strings.TrimSpace(facets.LineOfBusiness),
	}
	checks := []struct {
		name    string
		value   *string
		allowed []string
	}{
		{"insurance type", &normalized.InsuranceType, InsuranceTypes},
		{"region", &normalized.Region, Regions},
		{"line of business", &normalized.LineOfBusiness, LinesOfBusiness},
	}
	for _, check := range checks {
		canonical, ok := lookupOption(*check.value, check.allowed)
		if !ok {
			return GenerationRequest{}, apperrors.New(apperrors.KindInvalidInput, op,
				fmt.Sprintf("unknown %s %q (allowed: %s)", check.name, *check.value, strings.Join(check.allowed, ", ")))
		}
		*check.value = canonical
	}
	return GenerationRequest{facets: normalized, requirements: requirements, count: count}, nil
}

func lookupOption(value string, allowed []string) (string, bool) {
	for _, option := range allowed {
		if strings.EqualFold(option, value) {
			return option, true
		}
	}
	return "", false
}

func (r GenerationRequest) Facets() Facets       { return r.facets }
func (r GenerationRequest) Requirements() string { return r.requirements }
func (r GenerationRequest) Count() int           { return r.count }

// Query is the similarity-search string: the facets followed by the requirement text.
func (r GenerationRequest) Query() string {
	return strings.Join([]string{
		r.facets.InsuranceType,
		r.facets.Region,
		r.facets.LineOfBusiness,
		r.requirements,
	}, " ")
}

// Options describes the selectable facet values for a form.
type Options struct {
	InsuranceTypes  []string `json:"insurance_types"`
	Regions         []string `json:"regions"`
	LinesOfBusiness []string `json:"lines_of_business"`
	MinCount        int      `json:"min_count"`
	MaxCount        int      `json:"max_count"`
	DefaultCount    int      `json:"default_count"`
}

func DefaultOptions() Options {
	return Options{
		InsuranceTypes:  append([]string(nil), InsuranceTypes...),
		Regions:         append([]string(nil), Regions...),
		LinesOfBusiness: append([]string(nil), LinesOfBusiness...),
		MinCount:        MinCount,
		MaxCount:        MaxCount,
		DefaultCount:    DefaultCount,
	}
}
