package approver

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/config"
	"github.com/autoapprove/claude-auto-approve/internal/detect"
	"github.com/autoapprove/claude-auto-approve/internal/focus"
	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/policy"
)

type fakeReader struct {
	windows []model.Window
	listErr error
}

func (f *fakeReader) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	return f.windows, f.listErr
}

func (f *fakeReader) ReadElements(opts platform.ReadOptions) ([]model.Element, error) {
	return nil, nil
}

type fakeStrategy struct {
	name  string
	res   detect.Result
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Detect(win model.Window) detect.Result {
	f.calls++
	return f.res
}

type fakeWindowManager struct{ activated []int }

func (f *fakeWindowManager) FrontmostApp() (platform.AppInfo, error) {
	return platform.AppInfo{Name: "Terminal", PID: 7}, nil
}

func (f *fakeWindowManager) ActivateApp(pid int) error {
	f.activated = append(f.activated, pid)
	return nil
}

type fakePresser struct {
	pressed []int
	opts    []platform.ReadOptions
	err     error
}

func (f *fakePresser) PressElement(opts platform.ReadOptions, elementID int) error {
	f.pressed = append(f.pressed, elementID)
	f.opts = append(f.opts, opts)
	return f.err
}

type fakeInputter struct{ clicks int }

func (f *fakeInputter) Click(x, y int) error {
	f.clicks++
	return nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.AllowedTools = []string{"codemcp", "ls"}
	cfg.Cooldown = config.Duration(5 * time.Second)
	return cfg
}

func foundCandidate(text string) detect.Result {
	bounds := [4]int{450, 480, 140, 32}
	return detect.Found(model.Candidate{
		Source:       model.SourceAccessibility,
		DialogBounds: [4]int{400, 250, 400, 300},
		ButtonBounds: &bounds,
		ButtonID:     4,
		Text:         text,
		Confidence:   1.0,
		ReadDepth:    25,
	})
}

// harness wires an approver to fakes and returns the pieces tests inspect.
type harness struct {
	approver *Approver
	reader   *fakeReader
	presser  *fakePresser
	wm       *fakeWindowManager
}

func newHarness(cfg config.Config, strategies ...detect.Strategy) *harness {
	log := zap.NewNop()
	reader := &fakeReader{windows: []model.Window{
		{App: "Claude", PID: 42, Title: "Claude", Frontmost: true, Bounds: [4]int{0, 0, 1200, 800}},
		{App: "Finder", PID: 9, Title: "Home"},
	}}
	presser := &fakePresser{}
	wm := &fakeWindowManager{}
	seq := focus.NewSequencer(wm, presser, &fakeInputter{}, log)
	engine := policy.NewEngine(cfg.AllowedTools, cfg.MatchMode)
	return &harness{
		approver: New(cfg, reader, strategies, engine, seq, log),
		reader:   reader,
		presser:  presser,
		wm:       wm,
	}
}

func TestTick_ApprovesAllowedTool(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), strat)

	res := h.approver.Tick()
	if res.Outcome != OutcomeApproved {
		t.Fatalf("expected approved, got %s", res.Outcome)
	}
	if res.Tool != "ls" {
		t.Errorf("expected extracted tool %q, got %q", "ls", res.Tool)
	}
	if res.Strategy != "accessibility" {
		t.Errorf("expected strategy name in result, got %q", res.Strategy)
	}
	if len(h.presser.pressed) != 1 || h.presser.pressed[0] != 4 {
		t.Errorf("expected one press of element 4, got %v", h.presser.pressed)
	}
	if want := (platform.ReadOptions{PID: 42, Depth: 25}); h.presser.opts[0] != want {
		t.Errorf("press used options %+v, want the candidate's read bounds %+v", h.presser.opts[0], want)
	}

	stats := h.approver.Stats()
	if stats.Ticks != 1 || stats.Approvals != 1 {
		t.Errorf("expected 1 tick and 1 approval, got %+v", stats)
	}
}

func TestTick_DeniesUnlistedTool(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("badtool wants to run: rm")}
	h := newHarness(testConfig(), strat)

	res := h.approver.Tick()
	if res.Outcome != OutcomeDenied {
		t.Fatalf("expected denied, got %s", res.Outcome)
	}
	if len(h.presser.pressed) != 0 {
		t.Error("denied requests must never be pressed")
	}
}

func TestTick_UncertainOnEmptyText(t *testing.T) {
	strat := &fakeStrategy{name: "visual", res: foundCandidate("")}
	h := newHarness(testConfig(), strat)

	res := h.approver.Tick()
	if res.Outcome != OutcomeUncertain {
		t.Fatalf("expected uncertain, got %s", res.Outcome)
	}
	if len(h.presser.pressed) != 0 {
		t.Error("unidentified requests must never be pressed")
	}
}

func TestTick_DebouncesRepeatedDialog(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), strat)

	if res := h.approver.Tick(); res.Outcome != OutcomeApproved {
		t.Fatalf("first tick should approve, got %s", res.Outcome)
	}
	if res := h.approver.Tick(); res.Outcome != OutcomeDebounced {
		t.Fatalf("second tick on same dialog should debounce, got %s", res.Outcome)
	}
	if len(h.presser.pressed) != 1 {
		t.Errorf("expected exactly one press across both ticks, got %d", len(h.presser.pressed))
	}
}

func TestTick_NewDialogNotDebounced(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), strat)

	h.approver.Tick()
	strat.res = foundCandidate("codemcp wants to run: codemcp")
	if res := h.approver.Tick(); res.Outcome != OutcomeApproved {
		t.Errorf("a different dialog within the cooldown must still be approved, got %s", res.Outcome)
	}
}

func TestTick_FailedActionIsRetriedNextTick(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), strat)
	h.presser.err = fmt.Errorf("press rejected")

	if res := h.approver.Tick(); res.Outcome != OutcomeActFailed {
		t.Fatalf("expected act_failed, got %s", res.Outcome)
	}

	// The fingerprint is only recorded on success, so the next tick acts again.
	h.presser.err = nil
	if res := h.approver.Tick(); res.Outcome != OutcomeApproved {
		t.Errorf("expected retry to approve, got %s", res.Outcome)
	}
}

func TestTick_StrategyPriority(t *testing.T) {
	primary := &fakeStrategy{name: "accessibility", res: detect.NotFound()}
	fallback := &fakeStrategy{name: "visual", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), primary, fallback)

	res := h.approver.Tick()
	if res.Outcome != OutcomeApproved {
		t.Fatalf("expected fallback strategy to approve, got %s", res.Outcome)
	}
	if res.Strategy != "visual" {
		t.Errorf("expected fallback strategy in result, got %q", res.Strategy)
	}
	if primary.calls != 1 {
		t.Errorf("primary strategy should run first, got %d calls", primary.calls)
	}
}

func TestTick_FirstFoundShortCircuits(t *testing.T) {
	primary := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	fallback := &fakeStrategy{name: "visual", res: foundCandidate("other")}
	h := newHarness(testConfig(), primary, fallback)

	h.approver.Tick()
	if fallback.calls != 0 {
		t.Errorf("fallback must not run when the primary found a dialog, got %d calls", fallback.calls)
	}
}

func TestTick_UnavailableStrategyFallsThrough(t *testing.T) {
	primary := &fakeStrategy{name: "accessibility",
		res: detect.Unavailable(fmt.Errorf("permission: %w", platform.ErrUnavailable))}
	fallback := &fakeStrategy{name: "visual", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), primary, fallback)

	if res := h.approver.Tick(); res.Outcome != OutcomeApproved {
		t.Errorf("expected fallback past unavailable strategy, got %s", res.Outcome)
	}
}

func TestTick_NoMatchingWindow(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: foundCandidate("codemcp wants to run: ls")}
	h := newHarness(testConfig(), strat)
	h.reader.windows = []model.Window{{App: "Finder", PID: 9, Title: "Home"}}

	res := h.approver.Tick()
	if res.Outcome != OutcomeNoWindow {
		t.Fatalf("expected no_window, got %s", res.Outcome)
	}
	if strat.calls != 0 {
		t.Error("strategies must not run without a target window")
	}
}

func TestTick_NoDialog(t *testing.T) {
	strat := &fakeStrategy{name: "accessibility", res: detect.NotFound()}
	h := newHarness(testConfig(), strat)

	if res := h.approver.Tick(); res.Outcome != OutcomeNoDialog {
		t.Errorf("expected no_dialog, got %s", res.Outcome)
	}
}
