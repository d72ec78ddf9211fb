package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateJSON(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n{\"issues\":[{\"message\":\"m\"}]}\n```"}

	var out struct {
		Issues []struct {
			Message string `json:"message"`
		} `json:"issues"`
	}
	if err := GenerateJSON(context.Background(), gen, "analyze this", &out); err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}
	if len(out.Issues) != 1 || out.Issues[0].Message != "m" {
		t.Errorf("unexpected result: %+v", out)
	}

	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "ONLY valid JSON") {
		t.Errorf("prompt missing JSON-only instruction: %q", gen.prompts)
	}
}

func TestGenerateJSON_Errors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("boom")}
		var out map[string]any
		if err := GenerateJSON(context.Background(), gen, "p", &out); err == nil {
			t.Error("expected error for backend failure")
		}
	})

	t.Run("unparseable reply", func(t *testing.T) {
		gen := &stubGenerator{reply: "sorry, I cannot do that"}
		var out map[string]any
		if err := GenerateJSON(context.Background(), gen, "p", &out); err == nil {
			t.Error("expected error for unparseable reply")
		}
	})
}
