package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoapprove/claude-auto-approve/internal/model"
	"github.com/autoapprove/claude-auto-approve/internal/output"
	"github.com/autoapprove/claude-auto-approve/internal/platform"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List visible windows",
	Long:  "List visible windows with app name, title, PID, and bounds. Useful for checking what the window locator would match.",
	RunE:  runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().String("app", "", "Filter by app name or window title substring")
}

func runWindows(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	windows, err := provider.Reader.ListWindows(platform.ListOptions{})
	if err != nil {
		return err
	}

	pattern, _ := cmd.Flags().GetString("app")
	matched := model.MatchWindows(windows, pattern)
	if matched == nil {
		matched = []model.Window{}
	}
	return output.Print(map[string]interface{}{"windows": matched})
}
