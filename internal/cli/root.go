// Package cli provides the command-line interface for rivet.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/rivet/internal/cli/config"
	"github.com/leapstack-labs/rivet/internal/tui"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// UsageError marks a command line that could not be understood.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage):
		return 2
	default:
		return 1
	}
}

// app carries the state of one invocation between cobra hooks.
type app struct {
	cfgFile string
	execute string

	cfg         *config.Config
	mode        mode
	interactive bool
	logCloser   io.Closer
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{logCloser: nopCloser{}}

	rootCmd := &cobra.Command{
		Use:   "rivet [flags] <database>",
		Short: "rivet - a terminal client for SQLite databases",
		Long: `rivet opens a SQLite database file in a full-screen terminal interface.

Queries are paged, and writes are staged in a transaction until you save
them. Without a terminal, or with --plain, rivet reads one statement per line.`,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &UsageError{Err: fmt.Errorf("expected one database path, got %d arguments", len(args))}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.interactive = isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
			a.mode = chooseMode(cfg, a.execute, a.interactive)

			logger, closer, err := newLogger(cfg, a.mode, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logCloser = closer
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		RunE:          a.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
` + fmt.Sprintf("commit %s, built %s\n", GitCommit, BuildDate))
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := rootCmd.Flags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./rivet.yaml)")
	flags.StringVarP(&a.execute, "execute", "e", "", "Run one statement, print the result and exit")
	flags.BoolP("read-only", "r", false, "Open the database read-only")
	flags.StringP("output", "o", config.DefaultOutput, "Output format for --execute and --plain (table|json|csv|markdown|yaml)")
	flags.Bool("plain", false, "Use the line-oriented REPL instead of the full-screen interface")
	flags.Int("page-size", config.DefaultPageSize, "Rows fetched per page")
	flags.String("on-exit", config.DefaultOnExit, "What to do with unsaved changes on exit (rollback|commit)")
	flags.String("theme", config.DefaultTheme, "Colour theme")
	flags.Bool("no-color", false, "Disable colour output")
	flags.Duration("notify-timeout", config.DefaultNotifyTimeout, "How long notifications stay on screen")
	flags.String("log-file", "", "Append logs to this file")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	completions := map[string][]string{
		"output":    config.Outputs,
		"on-exit":   {"rollback", "commit"},
		"theme":     tui.ThemeNames(),
		"log-level": config.LogLevels,
	}
	for name, values := range completions {
		_ = rootCmd.RegisterFlagCompletionFunc(name, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}

	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprint(os.Stderr, "\n"+cmd.UsageString())
	}
	return err
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rivet.

To load completions:

Bash:
  $ source <(rivet completion bash)

Zsh:
  $ rivet completion zsh > "${fpath[1]}/_rivet"

Fish:
  $ rivet completion fish | source

PowerShell:
  PS> rivet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
