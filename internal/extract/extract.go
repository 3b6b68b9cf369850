// Package extract pulls the requested tool name out of a located dialog's
// text. It does not decide allow/deny; that is the policy engine's job.
package extract

import (
	"regexp"
	"strings"

	"github.com/autoapprove/claude-auto-approve/internal/model"
)

// Request-text shapes the target app is known to render. Tried in order;
// the first capture group is the tool name.
var toolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)run\s+(\S+)\s+from\s+(\S+)`),
	regexp.MustCompile(`(?i)wants to run:?\s+(\S+)`),
}

// ToolName returns the best-effort tool name for a candidate.
// Accessibility-sourced text is exact; visual-sourced text is raw OCR output
// and may carry recognition noise. Both are normalized the same way. When no
// request pattern matches, the normalized full text is returned so the
// policy engine can still attempt a match.
func ToolName(c model.Candidate) string {
	text := Normalize(c.Text)
	if text == "" {
		return ""
	}
	for _, pat := range toolPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], ".,:;!?")
		}
	}
	return text
}

// Normalize trims surrounding whitespace, collapses internal runs of
// whitespace to single spaces, and lowercases.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
