// File path: internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "message and cause",
			err:      Wrapf(KindGenerationFailed, "llm.complete", errors.New("429 too many requests"), "completion request failed"),
			contains: []string{"llm.complete", "completion request failed", "429"},
		},
		{
			name:     "message only",
			err:      New(KindInvalidInput, "intake", "Please input requirements first!"),
			contains: []string{"intake", "Please input requirements first!"},
		},
		{
			name:     "cause only",
			err:      Wrap(KindIndexUnavailable, "retriever.search", errors.New("connection refused")),
			contains: []string{"retriever.search", "connection refused"},
		},
		{
			name:     "bare kind",
			err:      &Error{Kind: KindConfiguration, Op: "llm.config"},
			contains: []string{"llm.config", string(KindConfiguration)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Error() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	base := Wrap(KindIndexUnavailable, "sqlite.search", cause)
	wrapped := fmt.Errorf("generate: %w", base)

	if !Is(wrapped, KindIndexUnavailable) {
		t.Fatalf("expected wrapped error to carry %s", KindIndexUnavailable)
	}
	if Is(wrapped, KindGenerationFailed) {
		t.Fatalf("unexpected kind match")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause to remain reachable")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors should have no kind")
	}
	if Is(nil, KindInvalidInput) {
		t.Fatalf("nil error should not match")
	}
}

func TestUserMessage(t *testing.T) {
	if got := New(KindInvalidInput, "op", "friendly").UserMessage(); got != "friendly" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := Wrap(KindFileRead, "op", errors.New("zip: not a valid zip file")).UserMessage(); got != "zip: not a valid zip file" {
		t.Errorf("UserMessage() = %q", got)
	}
}
