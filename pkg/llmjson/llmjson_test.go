package llmjson_test

import (
	"testing"

	"intent-assistant/pkg/llmjson"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantVal any
		wantErr bool
	}{
		{
			name:    "plain object",
			input:   `{"intent": "create-task"}`,
			wantKey: "intent",
			wantVal: "create-task",
		},
		{
			name:    "json fence",
			input:   "```json\n{\"intent\": \"create-task\"}\n```",
			wantKey: "intent",
			wantVal: "create-task",
		},
		{
			name:    "bare fence",
			input:   "```\n{\"title\": \"Buy milk\"}\n```",
			wantKey: "title",
			wantVal: "Buy milk",
		},
		{
			name:    "prose around object",
			input:   "Sure! Here is the result: {\"category\": \"work\"} Let me know.",
			wantKey: "category",
			wantVal: "work",
		},
		{
			name:    "trailing commas",
			input:   `{"tags": ["a", "b",], "title": "x",}`,
			wantKey: "title",
			wantVal: "x",
		},
		{
			name:    "brace inside string",
			input:   `{"title": "use {curly} braces"} trailing }`,
			wantKey: "title",
			wantVal: "use {curly} braces",
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no object",
			input:   "I could not understand the request.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"title": "x"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := llmjson.Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got[tt.wantKey] != tt.wantVal {
				t.Errorf("got %v for %q, want %v", got[tt.wantKey], tt.wantKey, tt.wantVal)
			}
		})
	}
}

func TestRepairTrailingCommas_KeepsCommasInStrings(t *testing.T) {
	in := `{"note": "a, }", "n": 1,}`
	want := `{"note": "a, }", "n": 1}`
	if got := llmjson.RepairTrailingCommas(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
