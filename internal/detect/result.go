// Package detect implements the two dialog detection strategies: a
// structured accessibility-tree scan and a pixel/OCR fallback. Each strategy
// yields a tagged Result so the orchestrator can combine them by fixed
// priority without deep branching.
package detect

import "github.com/autoapprove/claude-auto-approve/internal/model"

// Status tags a detection outcome.
type Status int

const (
	// StatusFound means the strategy located an approval dialog.
	StatusFound Status = iota

	// StatusNotFound means the strategy ran but saw no approval dialog.
	// A recoverable per-tick condition.
	StatusNotFound

	// StatusUnavailable means the strategy cannot run at all (permission
	// denied, engine missing). Callers surface this once and fall back.
	StatusUnavailable
)

// Result is the outcome of one strategy invocation.
type Result struct {
	Status    Status
	Candidate model.Candidate // valid only when Status == StatusFound
	Err       error           // cause, set for StatusUnavailable
}

// Found wraps a located candidate.
func Found(c model.Candidate) Result {
	return Result{Status: StatusFound, Candidate: c}
}

// NotFound reports a clean no-match.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Unavailable reports a missing capability.
func Unavailable(err error) Result {
	return Result{Status: StatusUnavailable, Err: err}
}

// Strategy locates an approval dialog in a window.
type Strategy interface {
	Name() string
	Detect(win model.Window) Result
}
