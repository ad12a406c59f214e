package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/steveyegge/pj/internal/types"
)

// Querier is the part of the query orchestrator the shell needs.
type Querier interface {
	Projects(ctx context.Context, keyword string) []types.Project
	Refresh(ctx context.Context) ([]types.Project, error)
	RecordHit(ctx context.Context, projectPath, idePath string) (types.Project, error)
}

// REPL represents the interactive search shell
type REPL struct {
	querier  Querier
	rl       *readline.Instance
	ctx      context.Context
	out      io.Writer
	limit    int
	last     []types.Project
	commands map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Querier Querier

	// Out receives all output. Defaults to stdout.
	Out io.Writer

	// Limit caps how many results are listed per search. Default: 20
	Limit int
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Querier == nil {
		return nil, fmt.Errorf("querier is required")
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}

	r := &REPL{
		querier:  cfg.Querier,
		ctx:      context.Background(),
		out:      out,
		limit:    limit,
		commands: make(map[string]CommandHandler),
	}

	// Register built-in commands
	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("pj> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         ":quit",
		HistorySearchFold: true,
		Stdout:            r.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl
	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				// Ctrl+C - just show prompt again
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		if err := r.processInput(strings.TrimSpace(line)); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(r.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// processInput treats ":"-prefixed input as a command and anything else as
// a search keyword.
func (r *REPL) processInput(line string) error {
	if strings.HasPrefix(line, ":") {
		parts := strings.Fields(line)
		handler, ok := r.commands[parts[0]]
		if !ok {
			return fmt.Errorf("unknown command %s (try :help)", parts[0])
		}
		return handler(parts[1:])
	}

	r.search(line)
	return nil
}

func (r *REPL) search(keyword string) {
	r.last = r.querier.Projects(r.ctx, keyword)
	shown := r.last
	if len(shown) > r.limit {
		shown = shown[:r.limit]
	}
	PrintProjects(r.out, shown)
	if hidden := len(r.last) - len(shown); hidden > 0 {
		fmt.Fprintf(r.out, "  ... and %d more\n", hidden)
	}
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands[":help"] = r.cmdHelp
	r.commands[":?"] = r.cmdHelp
	r.commands[":refresh"] = r.cmdRefresh
	r.commands[":hit"] = r.cmdHit
	r.commands[":quit"] = r.cmdExit
	r.commands[":exit"] = r.cmdExit
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n", cyan("pj - project quick launcher"))
	fmt.Fprintln(r.out, "Type a keyword to search cached projects, ':help' for commands")
	fmt.Fprintln(r.out)
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"<keyword>", "Search projects (empty line lists everything)"},
		{":refresh", "Rescan the workspace and update the cache"},
		{":hit N [ide]", "Record a selection of result N from the last search"},
		{":help, :?", "Show this help message"},
		{":quit, :exit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Fprintf(r.out, "  %-14s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Fprintln(r.out)
	return nil
}

// cmdRefresh rescans the workspace
func (r *REPL) cmdRefresh(args []string) error {
	projects, err := r.querier.Refresh(r.ctx)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s Indexed %d project(s)\n", green("✓"), len(projects))
	return nil
}

// cmdHit records a selection of a result from the last search
func (r *REPL) cmdHit(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: :hit N [ide-path]")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(r.last) {
		return fmt.Errorf("no result %q in the last search", args[0])
	}
	idePath := ""
	if len(args) > 1 {
		idePath = strings.Join(args[1:], " ")
	}

	p, err := r.querier.RecordHit(r.ctx, r.last[n-1].Path, idePath)
	if err != nil {
		return err
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "%s %s (%d hits)\n", green("✓"), p.Name, p.Hits)
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.out, "\n%s Goodbye!\n", green("✓"))
	return io.EOF // Signal to exit the loop
}
