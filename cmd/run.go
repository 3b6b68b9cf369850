package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autoapprove/claude-auto-approve/internal/config"
	"github.com/autoapprove/claude-auto-approve/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-approval poll loop",
	Long: `Poll the target application for tool permission dialogs and approve
allow-listed requests. Runs until interrupted (Ctrl-C).

Examples:
  claude-auto-approve run
  claude-auto-approve run --config ~/.config/claude-auto-approve.yaml
  claude-auto-approve run --allow ls --allow read-file --interval 1s
  claude-auto-approve run --once`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("app", "", "Target application name (overrides config)")
	runCmd.Flags().StringSlice("allow", nil, "Allowed tool names (overrides config)")
	runCmd.Flags().String("match-mode", "", "Allow-list matching: exact, substring (overrides config)")
	runCmd.Flags().Duration("interval", 0, "Poll interval (overrides config)")
	runCmd.Flags().Bool("visual", false, "Enable the visual fallback strategy")
	runCmd.Flags().Bool("once", false, "Run a single tick and exit")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyRunFlags(cmd, &cfg); err != nil {
		return err
	}

	log := zap.L()
	a, _, err := buildApprover(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once, _ := cmd.Flags().GetBool("once"); once {
		result := a.Once(ctx)
		return output.Print(result)
	}
	return a.Run(ctx)
}

// applyRunFlags overlays explicitly-set command line flags on the loaded
// config, then re-validates.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("app") {
		cfg.AppName, _ = cmd.Flags().GetString("app")
	}
	if cmd.Flags().Changed("allow") {
		cfg.AllowedTools, _ = cmd.Flags().GetStringSlice("allow")
	}
	if cmd.Flags().Changed("match-mode") {
		mode, _ := cmd.Flags().GetString("match-mode")
		switch mode {
		case "exact":
			cfg.MatchMode = config.MatchExact
		case "substring":
			cfg.MatchMode = config.MatchSubstring
		default:
			return fmt.Errorf("unsupported match-mode: %s (use exact or substring)", mode)
		}
	}
	if cmd.Flags().Changed("interval") {
		d, _ := cmd.Flags().GetDuration("interval")
		cfg.PollInterval = config.Duration(d)
	}
	if cmd.Flags().Changed("visual") {
		cfg.VisualFallback, _ = cmd.Flags().GetBool("visual")
	}
	return cfg.Validate()
}
