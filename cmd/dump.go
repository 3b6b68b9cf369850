package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoapprove/claude-auto-approve/internal/output"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/report"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the target app's accessibility hierarchy to a file",
	Long: `Read the target application's accessibility element tree and write an
indented text dump to the configured dump directory. Useful for debugging
why a dialog or button is not being detected.`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().String("app", "", "Target application name (overrides config)")
	dumpCmd.Flags().String("dir", "", "Output directory (overrides config)")
	dumpCmd.Flags().Int("depth", 0, "Max traversal depth (overrides config)")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("app") {
		cfg.AppName, _ = cmd.Flags().GetString("app")
	}
	if cmd.Flags().Changed("dir") {
		cfg.DumpDir, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flags().Changed("depth") {
		cfg.MaxDepth, _ = cmd.Flags().GetInt("depth")
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	win, err := locateTarget(provider, cfg.AppName)
	if err != nil {
		return err
	}

	elements, err := provider.Reader.ReadElements(platform.ReadOptions{
		PID:   win.PID,
		Depth: cfg.MaxDepth,
	})
	if err != nil {
		return err
	}

	path, err := report.WriteHierarchy(cfg.DumpDir, win.App, elements)
	if err != nil {
		return err
	}
	return output.Print(map[string]interface{}{
		"path":     path,
		"app":      win.App,
		"pid":      win.PID,
		"elements": countElements(elements),
	})
}
