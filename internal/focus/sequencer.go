// Package focus performs the approval interaction while preserving the
// user's foreground focus.
package focus

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

// Snapshot records the application holding foreground focus before an
// interaction. Owned by one Approve invocation and discarded after
// restoration.
type Snapshot struct {
	App   platform.AppInfo
	valid bool
}

// Sequencer executes the approve action: record focus, interact with the
// target control, restore focus.
type Sequencer struct {
	wm       platform.WindowManager
	presser  platform.Presser
	inputter platform.Inputter
	log      *zap.Logger

	// raiseDelay gives the window server time to bring the target frontmost
	// before a coordinate click.
	raiseDelay time.Duration
}

// NewSequencer creates a focus sequencer.
func NewSequencer(wm platform.WindowManager, presser platform.Presser, inputter platform.Inputter, log *zap.Logger) *Sequencer {
	return &Sequencer{
		wm:         wm,
		presser:    presser,
		inputter:   inputter,
		log:        log,
		raiseDelay: 100 * time.Millisecond,
	}
}

// Approve clicks the candidate's approval control and restores the
// previously focused application. Restoration is attempted even when the
// interaction fails, so a failed click never leaves focus stolen. The
// sequencer never retries within one invocation; the next poll tick
// re-detects and re-attempts.
func (s *Sequencer) Approve(win model.Window, cand model.Candidate) error {
	snap := s.record()

	actErr := s.act(win, cand)

	s.restore(snap, win)

	return actErr
}

// record captures the frontmost application. A failed snapshot is logged and
// the interaction proceeds; there is then nothing to restore.
func (s *Sequencer) record() Snapshot {
	app, err := s.wm.FrontmostApp()
	if err != nil {
		s.log.Warn("could not record frontmost app; focus will not be restored", zap.Error(err))
		return Snapshot{}
	}
	return Snapshot{App: app, valid: true}
}

func (s *Sequencer) act(win model.Window, cand model.Candidate) error {
	switch cand.Source {
	case model.SourceAccessibility:
		return s.press(win, cand)
	case model.SourceVisual:
		return s.click(win, cand)
	default:
		return fmt.Errorf("unknown candidate source %q", cand.Source)
	}
}

// press invokes the control through the accessibility API. Direct interaction
// works without raising the window, so foregrounding only happens as a
// fallback when the direct press fails. The re-walk that locates ButtonID
// must use the same traversal bounds as the read that assigned it, or the
// sequential IDs refer to different elements.
func (s *Sequencer) press(win model.Window, cand model.Candidate) error {
	opts := platform.ReadOptions{
		PID:      win.PID,
		WindowID: cand.ReadWindowID,
		Depth:    cand.ReadDepth,
	}
	err := s.presser.PressElement(opts, cand.ButtonID)
	if err == nil {
		return nil
	}
	s.log.Debug("direct press failed, raising window and retrying", zap.Error(err))

	if err := s.wm.ActivateApp(win.PID); err != nil {
		return fmt.Errorf("activating %s: %w", win.App, err)
	}
	time.Sleep(s.raiseDelay)
	if err := s.presser.PressElement(opts, cand.ButtonID); err != nil {
		return fmt.Errorf("pressing approval button: %w", err)
	}
	return nil
}

// click raises the target window and synthesizes a mouse click at the
// matched button's screen coordinates. A coordinate click requires the
// target to be frontmost and unoccluded.
func (s *Sequencer) click(win model.Window, cand model.Candidate) error {
	if cand.ButtonBounds == nil {
		return fmt.Errorf("visual candidate has no button location")
	}
	if err := s.wm.ActivateApp(win.PID); err != nil {
		return fmt.Errorf("activating %s: %w", win.App, err)
	}
	time.Sleep(s.raiseDelay)

	b := *cand.ButtonBounds
	x, y := b[0]+b[2]/2, b[1]+b[3]/2
	if err := s.inputter.Click(x, y); err != nil {
		return fmt.Errorf("clicking approval button at (%d, %d): %w", x, y, err)
	}
	return nil
}

// restore returns focus to the snapshotted application. Skipped when the
// snapshot failed or the target app already held focus.
func (s *Sequencer) restore(snap Snapshot, win model.Window) {
	if !snap.valid || snap.App.PID == win.PID {
		return
	}
	if err := s.wm.ActivateApp(snap.App.PID); err != nil {
		s.log.Warn("failed to restore focus",
			zap.String("app", snap.App.Name),
			zap.Error(err))
	}
}
