package detect

import (
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// requestMarkers are substrings that identify a container as a tool request
// dialog rather than an unrelated confirmation surface.
var requestMarkers = []string{"wants to run", "run "}

// affirmativePattern matches button labels indicating an allow/confirm
// action, used when no button carries the configured label exactly.
var affirmativePattern = regexp.MustCompile(`(?i)\b(allow|approve|confirm)\b`)

// Scanner is the accessibility-tree detection strategy. Label text is exact,
// so matches carry confidence 1.0 and need no numeric scoring.
type Scanner struct {
	reader      platform.Reader
	buttonLabel string
	maxDepth    int
	log         *zap.Logger
}

// NewScanner creates the accessibility strategy.
func NewScanner(reader platform.Reader, buttonLabel string, maxDepth int, log *zap.Logger) *Scanner {
	return &Scanner{reader: reader, buttonLabel: buttonLabel, maxDepth: maxDepth, log: log}
}

func (s *Scanner) Name() string { return "accessibility" }

// Detect walks the accessibility tree of the window's owning process looking
// for a dialog-shaped container holding the approval button. All windows of
// the process are scanned: the confirmation sheet is often a separate AX
// window from the main one.
func (s *Scanner) Detect(win model.Window) Result {
	opts := platform.ReadOptions{
		PID:   win.PID,
		Depth: s.maxDepth,
	}
	tree, err := s.reader.ReadElements(opts)
	if err != nil {
		if errors.Is(err, platform.ErrUnavailable) {
			return Unavailable(err)
		}
		s.log.Debug("accessibility read failed", zap.Error(err))
		return NotFound()
	}
	if len(tree) == 0 {
		return NotFound()
	}

	// Buttons inside dialog containers first; prefer a container that also
	// carries tool-request text, to avoid unrelated dialogs with
	// similarly-labeled buttons.
	var fallback *model.Candidate
	for _, role := range model.DialogRoles {
		for _, container := range model.FindByRole(tree, role, 0) {
			button := s.findApprovalButton([]model.Element{container})
			if button == nil {
				continue
			}
			cand := s.candidate(opts, container, *button)
			if hasRequestText(container) {
				return Found(cand)
			}
			if fallback == nil {
				fallback = &cand
			}
		}
	}
	if fallback != nil {
		return Found(*fallback)
	}

	// Last resort: the button directly in a window, outside any recognized
	// container role.
	if button := model.FindButton(tree, s.buttonLabel); button != nil {
		root := tree[0]
		return Found(s.candidate(opts, root, *button))
	}

	return NotFound()
}

// findApprovalButton looks for the configured label first; failing that, any
// affirmative-labeled button. The fallback only applies inside dialog
// containers; the window-level last resort stays exact to avoid pressing
// unrelated confirmation buttons.
func (s *Scanner) findApprovalButton(scope []model.Element) *model.Element {
	if btn := model.FindButton(scope, s.buttonLabel); btn != nil {
		return btn
	}
	return model.FindButtonFunc(scope, affirmativePattern.MatchString)
}

func (s *Scanner) candidate(opts platform.ReadOptions, container, button model.Element) model.Candidate {
	bounds := button.Bounds
	return model.Candidate{
		Source:       model.SourceAccessibility,
		DialogBounds: container.Bounds,
		ButtonBounds: &bounds,
		ButtonID:     button.ID,
		Text:         model.CollectText([]model.Element{container}),
		Confidence:   1.0,
		ReadDepth:    opts.Depth,
		ReadWindowID: opts.WindowID,
	}
}

func hasRequestText(container model.Element) bool {
	for _, marker := range requestMarkers {
		if model.ContainsText([]model.Element{container}, marker) {
			return true
		}
	}
	return false
}
