package extract

import (
	"testing"

	"github.com/autoapprove/claude-auto-approve/internal/model"
)

func TestToolName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"run from pattern", "Run codemcp from this chat", "codemcp"},
		{"wants to run with colon", "codemcp wants to run: ls", "ls"},
		{"wants to run without colon", "Terminal wants to run ls", "ls"},
		{"trailing punctuation stripped", "wants to run: read-file.", "read-file"},
		{"multiline dialog text", "Allow tool?\nRun   grep from workspace\nThis cannot be undone", "grep"},
		{"no pattern falls back to full text", "Delete all files?", "delete all files?"},
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToolName(model.Candidate{Text: tt.text})
			if got != tt.want {
				t.Errorf("ToolName(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestToolName_CombinedForm(t *testing.T) {
	got := ToolName(model.Candidate{Text: "codemcp wants to run ls from workspace"})
	if got != "ls" {
		t.Errorf("expected tool name from combined form, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello   World  ", "hello world"},
		{"Run\nls\tnow", "run ls now"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
