// Package policy evaluates extracted tool names against the configured
// allow-list. Evaluation is a pure function of its inputs.
package policy

import (
	"strings"

	"github.com/autoapprove/claude-auto-approve/internal/config"
)

// Decision is the outcome class of a policy evaluation.
type Decision string

const (
	Approve   Decision = "approve"
	Deny      Decision = "deny"
	Uncertain Decision = "uncertain"
)

// Verdict is the result of evaluating one extracted tool name.
type Verdict struct {
	Decision Decision
	// MatchedTool is the allow-list entry that matched (approve only).
	MatchedTool string
	// Text is the evaluated input (deny/uncertain), kept for diagnostics.
	Text string
}

// Engine checks tool names against an ordered allow-list.
type Engine struct {
	allowed []string
	mode    config.MatchMode
}

// NewEngine builds a policy engine. The allow-list keeps its declaration
// order: the first matching entry wins.
func NewEngine(allowed []string, mode config.MatchMode) *Engine {
	return &Engine{allowed: allowed, mode: mode}
}

// Evaluate returns the verdict for a normalized tool-name string.
//
// Empty or unreadable text is Uncertain, never Approve: approval must be
// justified by confidently identified tool-name text. This is the safety
// invariant of the whole system.
func (e *Engine) Evaluate(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Verdict{Decision: Uncertain, Text: text}
	}

	lower := strings.ToLower(text)
	for _, entry := range e.allowed {
		entryLower := strings.ToLower(entry)
		switch e.mode {
		case config.MatchSubstring:
			if strings.Contains(lower, entryLower) {
				return Verdict{Decision: Approve, MatchedTool: entry}
			}
		default: // exact
			if lower == entryLower {
				return Verdict{Decision: Approve, MatchedTool: entry}
			}
		}
	}
	return Verdict{Decision: Deny, Text: text}
}
