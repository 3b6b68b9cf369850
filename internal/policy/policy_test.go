package policy

import (
	"testing"

	"github.com/autoapprove/claude-auto-approve/internal/config"
)

func TestEvaluate_ExactMode(t *testing.T) {
	engine := NewEngine([]string{"codemcp", "ls", "read-file"}, config.MatchExact)

	tests := []struct {
		name string
		text string
		want Decision
	}{
		{"allowed tool", "ls", Approve},
		{"allowed tool different case", "LS", Approve},
		{"tool with arguments is not exact", "ls -la", Deny},
		{"destructive command", "rm -rf /", Deny},
		{"unknown tool", "write-file", Deny},
		{"empty text", "", Uncertain},
		{"whitespace only", "   ", Uncertain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := engine.Evaluate(tt.text)
			if v.Decision != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.text, v.Decision, tt.want)
			}
		})
	}
}

func TestEvaluate_SubstringMode(t *testing.T) {
	engine := NewEngine([]string{"ls", "read-file"}, config.MatchSubstring)

	if v := engine.Evaluate("ls -la"); v.Decision != Approve {
		t.Errorf("substring mode should approve %q, got %s", "ls -la", v.Decision)
	}
	if v := engine.Evaluate("rm -rf /"); v.Decision != Deny {
		t.Errorf("expected deny for %q, got %s", "rm -rf /", v.Decision)
	}
	// Empty text stays uncertain in every mode.
	if v := engine.Evaluate(""); v.Decision != Uncertain {
		t.Errorf("empty text must be uncertain, got %s", v.Decision)
	}
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	engine := NewEngine([]string{"read", "read-file"}, config.MatchSubstring)

	v := engine.Evaluate("read-file")
	if v.Decision != Approve {
		t.Fatalf("expected approve, got %s", v.Decision)
	}
	if v.MatchedTool != "read" {
		t.Errorf("expected first allow-list entry to win, got %q", v.MatchedTool)
	}
}

func TestEvaluate_EmptyAllowList(t *testing.T) {
	engine := NewEngine(nil, config.MatchExact)
	if v := engine.Evaluate("ls"); v.Decision != Deny {
		t.Errorf("empty allow-list should deny everything, got %s", v.Decision)
	}
}
