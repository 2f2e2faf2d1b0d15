// File path: internal/prompt/prompt.go
package prompt

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/nicodishanthj/xcgen/internal/apperrors"
	"github.com/nicodishanthj/xcgen/internal/testcase"
)

const generationTemplate = `As an Insurance QA Expert, create {{.count}} test cases. Generated test cases should be based on the specific line of business and region. Please make sure the generated test cases are very high in quality and detail with this structure:

**Test Case X: [Scenario]**

Sl No.: [number]
Requirement ID: [REQ-XXX]
Test Case ID: [TC-XXX]
Module: [Specific Module]
LOB: {{.lob}}
Region: {{.region}}
Test Case Description: [Clear description]
Execution Steps:
Step1: [Action]
Step2: [Action]
... (Add as many steps as needed for the test case)
Expected Result: [Measurable outcome]

Avoid these examples but take inspiration from them only: {{.context}}`

var generationPrompt = prompts.NewPromptTemplate(generationTemplate, []string{"count", "lob", "region", "context"})

// Compose renders the generation prompt. Snippets are joined by newlines in
// the order given. The output depends only on its inputs.
func Compose(req testcase.GenerationRequest, snippets []string) (string, error) {
	facets := req.Facets()
	text, err := generationPrompt.Format(map[string]any{
		"count":   req.Count(),
		"lob":     facets.LineOfBusiness,
		"region":  facets.Region,
		"context": strings.Join(snippets, "\n"),
	})
	if err != nil {
		return "", apperrors.Wrapf(apperrors.KindInvalidInput, "prompt.compose", err, "Could not build the prompt")
	}
	return text, nil
}
