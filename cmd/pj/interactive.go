package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/pj/internal/repl"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Search projects interactively",
	Long: `Start an interactive shell. Each line is a search keyword; results come
from the cache and are ranked as the launcher would rank them.

Type ':help' in the shell for available commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		mustSetup()

		r, err := repl.New(&repl.Config{
			Querier: orch,
			Limit:   limit,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create shell: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()
		if err := r.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	interactiveCmd.Flags().Int("limit", 20, "Maximum results shown per search")
	rootCmd.AddCommand(interactiveCmd)
}
