package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/pj/internal/cache"
)

var hitCmd = &cobra.Command{
	Use:   "hit <project-path>",
	Short: "Record that a project was opened",
	Long: `Increment the hit count of a cached project so it ranks higher, and
optionally remember the editor it was opened with.

Examples:
  # Count a selection
  pj hit ~/Documents/api

  # Count a selection and remember the editor
  pj hit ~/Documents/api --ide /usr/local/bin/code`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		idePath, _ := cmd.Flags().GetString("ide")
		mustSetup()

		projectPath, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid path %q: %v\n", args[0], err)
			os.Exit(1)
		}

		ctx, cancel := signalContext()
		defer cancel()

		p, err := orch.RecordHit(ctx, projectPath, idePath)
		if errors.Is(err, cache.ErrProjectNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\nRun 'pj refresh' if the project is new.\n", err)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s now has %d hit(s)\n", green("✓"), p.Name, p.Hits)
	},
}

func init() {
	hitCmd.Flags().String("ide", "", "Editor or tool used to open the project")
	rootCmd.AddCommand(hitCmd)
}
