// Package cli defines the Cobra command tree for the omnibridge CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "omnibridge",
	Short: "Deterministic memory bridge and operator core for evidence workspaces",
	Long: `OmniBridge ingests evidence files, PDF documents, and transcripts into
named memory layers, keeps distributed memory nodes converged through a
witnessed fusion loop, and produces auditable operational reports with
advisor recommendations.

Run 'omnibridge init' in a workspace directory to get started.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newRunCmd(),
		newReportCmd(),
		newStatusCmd(),
		newLayersCmd(),
		newWatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("omnibridge %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
