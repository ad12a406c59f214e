package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/pj/internal/repl"
)

var listCmd = &cobra.Command{
	Use:   "list [keyword...]",
	Short: "Show ranked projects in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		refresh, _ := cmd.Flags().GetBool("refresh")
		mustSetup()

		ctx, cancel := signalContext()
		defer cancel()

		if refresh {
			if _, err := orch.Refresh(ctx); err != nil {
				logger.Warn().Err(err).Msg("Refresh failed, listing cached projects")
			}
		}
		repl.PrintProjects(os.Stdout, orch.Projects(ctx, strings.Join(args, " ")))
	},
}

func init() {
	listCmd.Flags().Bool("refresh", false, "Rescan the workspace first")
	rootCmd.AddCommand(listCmd)
}
