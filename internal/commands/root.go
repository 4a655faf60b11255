package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayo6706/circulation-scheduler/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "circulate",
		Short:   "Plan and audit circulation transfer schedules offline",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newAuditCommand())

	return rootCmd
}
