package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/approver"
	"github.com/autoapprove/claude-auto-approve/internal/config"
	"github.com/autoapprove/claude-auto-approve/internal/detect"
	"github.com/autoapprove/claude-auto-approve/internal/focus"
	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/policy"
)

// loadConfig reads the YAML config named by the root --config flag,
// layered over defaults. An empty flag yields the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildApprover assembles the full pipeline from a config: platform
// provider, detection strategies in priority order, policy engine, and
// the focus-preserving sequencer.
func buildApprover(cfg config.Config, log *zap.Logger) (*approver.Approver, *platform.Provider, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	if provider.Reader == nil {
		return nil, nil, fmt.Errorf("accessibility reader not available on this platform")
	}

	strategies := []detect.Strategy{
		detect.NewScanner(provider.Reader, cfg.ButtonLabel, cfg.MaxDepth, log),
	}
	if cfg.VisualFallback {
		matcher, err := detect.NewMatcher(provider.Capturer, provider.Recognizer,
			cfg.DialogTemplate, cfg.ButtonTemplate,
			cfg.DialogConfidence, cfg.Confidence, log)
		if err != nil {
			return nil, nil, fmt.Errorf("visual fallback: %w", err)
		}
		strategies = append(strategies, matcher)
	}

	engine := policy.NewEngine(cfg.AllowedTools, cfg.MatchMode)
	seq := focus.NewSequencer(provider.WindowManager, provider.Presser, provider.Inputter, log)
	return approver.New(cfg, provider.Reader, strategies, engine, seq, log), provider, nil
}

// countElements returns the total node count of an element tree.
func countElements(elements []model.Element) int {
	n := 0
	for _, e := range elements {
		n += 1 + countElements(e.Children)
	}
	return n
}

// locateTarget enumerates windows and picks the best match for the
// configured application pattern.
func locateTarget(provider *platform.Provider, pattern string) (model.Window, error) {
	windows, err := provider.Reader.ListWindows(platform.ListOptions{})
	if err != nil {
		return model.Window{}, err
	}
	win, ok := model.BestWindow(model.MatchWindows(windows, pattern))
	if !ok {
		return model.Window{}, fmt.Errorf("no window matching %q found", pattern)
	}
	return win, nil
}
