// Package approver orchestrates the poll loop: locate the target window,
// run the detection strategies in fixed priority order, evaluate policy,
// and act on approve verdicts.
package approver

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/config"
	"github.com/autoapprove/claude-auto-approve/internal/detect"
	"github.com/autoapprove/claude-auto-approve/internal/extract"
	"github.com/autoapprove/claude-auto-approve/internal/focus"
	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/policy"
)

// Outcome summarizes one poll tick for status reporting and tests.
type Outcome string

const (
	OutcomeNoWindow  Outcome = "no_window"
	OutcomeNoDialog  Outcome = "no_dialog"
	OutcomeDebounced Outcome = "debounced"
	OutcomeDenied    Outcome = "denied"
	OutcomeUncertain Outcome = "uncertain"
	OutcomeApproved  Outcome = "approved"
	OutcomeActFailed Outcome = "act_failed"
)

// TickResult reports what one tick saw and did.
type TickResult struct {
	Outcome  Outcome `json:"outcome"            yaml:"outcome"`
	Tool     string  `json:"tool,omitempty"     yaml:"tool,omitempty"`     // extracted tool name, if any dialog was found
	Strategy string  `json:"strategy,omitempty" yaml:"strategy,omitempty"` // strategy that produced the candidate
}

// Status is a snapshot of loop counters for the MCP status tool.
type Status struct {
	Ticks       int64     `json:"ticks"          yaml:"ticks"`
	Approvals   int64     `json:"approvals"      yaml:"approvals"`
	LastOutcome Outcome   `json:"last_outcome"   yaml:"last_outcome"`
	LastTool    string    `json:"last_tool"      yaml:"last_tool,omitempty"`
	LastTick    time.Time `json:"last_tick"      yaml:"last_tick"`
}

// Approver runs the detection/decision/action pipeline. One tick runs to
// completion before the next begins; nothing is shared across ticks except
// the debounce fingerprint and counters.
type Approver struct {
	cfg        config.Config
	reader     platform.Reader
	strategies []detect.Strategy
	engine     *policy.Engine
	seq        *focus.Sequencer
	log        *zap.Logger

	// Capability-unavailable conditions are surfaced once, not every tick.
	unavailableOnce map[string]*sync.Once

	mu              sync.Mutex
	lastFingerprint string
	lastActed       time.Time
	status          Status
}

// New assembles an approver. Strategies must be ordered by priority:
// only the first strategy returning Found is acted on within a tick.
func New(cfg config.Config, reader platform.Reader, strategies []detect.Strategy,
	engine *policy.Engine, seq *focus.Sequencer, log *zap.Logger) *Approver {

	once := make(map[string]*sync.Once, len(strategies))
	for _, s := range strategies {
		once[s.Name()] = &sync.Once{}
	}
	return &Approver{
		cfg:             cfg,
		reader:          reader,
		strategies:      strategies,
		engine:          engine,
		seq:             seq,
		log:             log,
		unavailableOnce: once,
	}
}

// Run polls until the context is cancelled. Cancellation is honored between
// ticks only: an in-flight tick always completes, so no interaction is left
// half-done and focus restoration always runs before shutdown.
func (a *Approver) Run(ctx context.Context) error {
	a.log.Info("starting auto-approval loop",
		zap.String("app", a.cfg.AppName),
		zap.Duration("interval", a.cfg.PollInterval.AsDuration()),
		zap.Strings("allowed_tools", a.cfg.AllowedTools))

	ticker := time.NewTicker(a.cfg.PollInterval.AsDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("auto-approval loop stopped")
			return ctx.Err()
		case <-ticker.C:
			a.Tick()
		}
	}
}

// Once runs a single tick. Used by the MCP approve-once tool.
func (a *Approver) Once(ctx context.Context) TickResult {
	if ctx.Err() != nil {
		return TickResult{Outcome: OutcomeNoWindow}
	}
	return a.Tick()
}

// Tick executes one Locate → Detect → Decide → Act pass.
func (a *Approver) Tick() TickResult {
	res := a.tick()

	a.mu.Lock()
	a.status.Ticks++
	a.status.LastOutcome = res.Outcome
	a.status.LastTool = res.Tool
	a.status.LastTick = time.Now()
	if res.Outcome == OutcomeApproved {
		a.status.Approvals++
	}
	a.mu.Unlock()

	return res
}

// Stats returns a snapshot of the loop counters.
func (a *Approver) Stats() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Approver) tick() TickResult {
	win, ok := a.locateWindow()
	if !ok {
		return TickResult{Outcome: OutcomeNoWindow}
	}

	cand, strategyName, found := a.detect(win)
	if !found {
		return TickResult{Outcome: OutcomeNoDialog}
	}

	tool := extract.ToolName(cand)
	verdict := a.engine.Evaluate(tool)

	switch verdict.Decision {
	case policy.Approve:
	case policy.Deny:
		// The user handles denied dialogs manually.
		a.log.Debug("tool not in allow-list", zap.String("tool", tool))
		return TickResult{Outcome: OutcomeDenied, Tool: tool, Strategy: strategyName}
	default:
		a.log.Debug("could not identify requested tool; leaving dialog alone")
		return TickResult{Outcome: OutcomeUncertain, Strategy: strategyName}
	}

	if a.debounced(cand) {
		a.log.Debug("same dialog within cooldown, skipping", zap.String("tool", tool))
		return TickResult{Outcome: OutcomeDebounced, Tool: tool, Strategy: strategyName}
	}

	a.log.Info("approving tool request",
		zap.String("tool", verdict.MatchedTool),
		zap.String("strategy", strategyName))

	if err := a.seq.Approve(win, cand); err != nil {
		// No retry within the tick; the next tick re-detects and re-attempts.
		a.log.Warn("approve action failed", zap.Error(err))
		return TickResult{Outcome: OutcomeActFailed, Tool: tool, Strategy: strategyName}
	}

	a.recordActed(cand)
	return TickResult{Outcome: OutcomeApproved, Tool: tool, Strategy: strategyName}
}

// locateWindow finds the best-matching visible window for the configured
// application pattern. Among matches the frontmost wins; with none
// frontmost, the largest bounding area wins (the main window is usually
// larger than auxiliary panels). Not-found is an ordinary per-tick
// condition, never an error.
func (a *Approver) locateWindow() (model.Window, bool) {
	windows, err := a.reader.ListWindows(platform.ListOptions{})
	if err != nil {
		a.log.Debug("window enumeration failed", zap.Error(err))
		return model.Window{}, false
	}
	return model.BestWindow(model.MatchWindows(windows, a.cfg.AppName))
}

// detect runs the strategies in priority order and returns the first Found
// candidate. Strategies are never combined or raced; a later strategy runs
// only when an earlier one reports NotFound or Unavailable.
func (a *Approver) detect(win model.Window) (model.Candidate, string, bool) {
	for _, s := range a.strategies {
		res := s.Detect(win)
		switch res.Status {
		case detect.StatusFound:
			return res.Candidate, s.Name(), true
		case detect.StatusUnavailable:
			a.warnUnavailable(s.Name(), res)
		}
	}
	return model.Candidate{}, "", false
}

func (a *Approver) warnUnavailable(name string, res detect.Result) {
	if once, ok := a.unavailableOnce[name]; ok {
		once.Do(func() {
			a.log.Warn("detection strategy unavailable",
				zap.String("strategy", name),
				zap.Error(res.Err))
		})
	}
}

// debounced reports whether the candidate matches the last acted-on dialog
// fingerprint within the cooldown window. Prevents double-clicking a dialog
// that is still visible on the next tick before it has dismissed itself.
func (a *Approver) debounced(cand model.Candidate) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cand.Fingerprint() == a.lastFingerprint &&
		time.Since(a.lastActed) < a.cfg.Cooldown.AsDuration()
}

// recordActed stores the debounce fingerprint. Only successful actions are
// recorded: a failed click must be retried by the next tick.
func (a *Approver) recordActed(cand model.Candidate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastFingerprint = cand.Fingerprint()
	a.lastActed = time.Now()
}
