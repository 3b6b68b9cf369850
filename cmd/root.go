package cmd

import (
	"fmt"
	"os"

	"github.com/autoapprove/claude-auto-approve/internal/logging"
	"github.com/autoapprove/claude-auto-approve/internal/output"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
	"github.com/autoapprove/claude-auto-approve/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claude-auto-approve",
	Short: "Auto-approve allow-listed tool requests in the Claude desktop app",
	Long: "Watches the Claude desktop app for tool permission dialogs and clicks\n" +
		"the confirmation button when the requested tool is on the allow-list.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if platform.RequestPermissionsFunc != nil {
			platform.RequestPermissionsFunc()
		}

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logging.Setup(verbose)

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		return nil
	}
}
