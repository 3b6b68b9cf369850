package model

import "fmt"

// Source identifies which detection strategy produced a candidate.
type Source string

const (
	SourceAccessibility Source = "accessibility"
	SourceVisual        Source = "visual"
)

// Candidate is a located approval dialog produced by a detection strategy.
// Confidence is in [0,1]; accessibility matches carry 1.0 since their labels
// are exact text rather than pixel-inferred.
type Candidate struct {
	Source       Source  `json:"source"                  yaml:"source"`
	DialogBounds [4]int  `json:"dialog_bounds"           yaml:"dialog_bounds"`
	ButtonBounds *[4]int `json:"button_bounds,omitempty" yaml:"button_bounds,omitempty"`
	ButtonID     int     `json:"button_id,omitempty"     yaml:"button_id,omitempty"` // accessibility element ID, 0 for visual
	Text         string  `json:"text,omitempty"          yaml:"text,omitempty"`      // raw extracted request text
	Confidence   float64 `json:"confidence"              yaml:"confidence"`

	// ReadDepth and ReadWindowID reproduce the traversal bounds of the tree
	// read that assigned ButtonID. Sequential IDs are only stable across
	// walks with identical bounds, so the press re-walk must reuse them.
	ReadDepth    int `json:"-" yaml:"-"`
	ReadWindowID int `json:"-" yaml:"-"`
}

// Fingerprint identifies a dialog occurrence for debouncing: the same dialog
// still visible on the next tick yields the same fingerprint.
func (c Candidate) Fingerprint() string {
	b := c.DialogBounds
	return fmt.Sprintf("%d,%d,%d,%d|%s", b[0], b[1], b[2], b[3], c.Text)
}
