package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/pj/internal/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [keyword...]",
	Short: "Rank cached projects for the launcher",
	Long: `Filter the cached project list by keyword and print launcher JSON.

The keyword is matched literally and case-insensitively against project
names. Regular expression syntax is not supported: "a.c" only matches names
containing "a.c".

The workspace is not scanned; run 'pj refresh' to pick up new projects.
Output is always a valid item list, even when something goes wrong.`,
	Run: func(cmd *cobra.Command, args []string) {
		keyword := strings.Join(args, " ")
		if err := setup(); err != nil {
			logger.Error().Err(err).Msg("Setup failed")
			emit(os.Stdout, nil)
			return
		}

		ctx, cancel := signalContext()
		defer cancel()
		emit(os.Stdout, orch.FromCache(ctx, keyword))
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [keyword...]",
	Short: "Rescan the workspace, update the cache and rank",
	Long: `Scan the workspace for project roots, carry hits and editor paths over
from the cache, save the result and print launcher JSON for keyword.

The keyword is matched literally, as with 'pj query'. If the workspace
cannot be read, the cached projects are printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		keyword := strings.Join(args, " ")
		if err := setup(); err != nil {
			logger.Error().Err(err).Msg("Setup failed")
			emit(os.Stdout, nil)
			return
		}

		ctx, cancel := signalContext()
		defer cancel()
		emit(os.Stdout, orch.Fresh(ctx, keyword))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(refreshCmd)
}

// emit writes the launcher envelope. A nil list is written as [].
func emit(w io.Writer, items []types.ResultItem) {
	if items == nil {
		items = []types.ResultItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(types.ScriptFilter{Items: items}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write results: %v\n", err)
	}
}
