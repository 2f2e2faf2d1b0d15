// File path: internal/prompt/prompt_test.go
package prompt

import (
	"strings"
	"testing"

	"github.com/nicodishanthj/xcgen/internal/testcase"
)

func newRequest(t *testing.T, count int) testcase.GenerationRequest {
	t.Helper()
	req, err := testcase.NewGenerationRequest(testcase.Facets{
		InsuranceType:  "Home",
		Region:         "ANZ",
		LineOfBusiness: "Commercial",
	}, "Flood cover endorsement", count)
	if err != nil {
		t.Fatalf("NewGenerationRequest: %v", err)
	}
	return req
}

func TestComposeFillsTemplate(t *testing.T) {
	got, err := Compose(newRequest(t, 7), []string{"Test Case 1:\nDescription: a", "Test Case 4:\nDescription: b"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for _, want := range []string{
		"As an Insurance QA Expert, create 7 test cases.",
		"**Test Case X: [Scenario]**",
		"Sl No.: [number]",
		"LOB: Commercial\nRegion: ANZ\n",
		"Execution Steps:\nStep1: [Action]\nStep2: [Action]\n",
		"Expected Result: [Measurable outcome]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	suffix := "Avoid these examples but take inspiration from them only: Test Case 1:\nDescription: a\nTest Case 4:\nDescription: b"
	if !strings.HasSuffix(got, suffix) {
		t.Fatalf("prompt does not end with the context block:\n%s", got)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	req := newRequest(t, 2)
	snippets := []string{"x", "y"}
	first, err := Compose(req, snippets)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	second, _ := Compose(req, snippets)
	if first != second {
		t.Fatalf("Compose is not deterministic")
	}
}

func TestComposeWithoutSnippets(t *testing.T) {
	got, err := Compose(newRequest(t, 1), nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasSuffix(got, "take inspiration from them only: ") {
		t.Fatalf("unexpected tail: %q", got[len(got)-40:])
	}
}

func TestComposeKeepsTemplateSyntaxInContext(t *testing.T) {
	got, err := Compose(newRequest(t, 1), []string{"literal {{.count}} braces"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(got, "literal {{.count}} braces") {
		t.Fatalf("context was re-interpreted: %q", got)
	}
}
