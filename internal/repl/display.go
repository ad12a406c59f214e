package repl

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/steveyegge/pj/internal/types"
)

// PrintProjects writes a numbered, colored listing of projects.
func PrintProjects(w io.Writer, projects []types.Project) {
	if len(projects) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(w, "%s No matching projects\n", yellow("⚠"))
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	for i, p := range projects {
		fmt.Fprintf(w, "%3d. %s %s  %s\n", i+1, cyan(p.Name), magenta("["+string(p.Type)+"]"), gray(p.Path))
		if p.Hits > 0 || p.IDEPath != "" {
			fmt.Fprintf(w, "     hits: %d", p.Hits)
			if p.IDEPath != "" {
				fmt.Fprintf(w, "  editor: %s", p.IDEPath)
			}
			fmt.Fprintln(w)
		}
	}
}
