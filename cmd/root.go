// Package cmd implements the jot CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/config"
	"github.com/jot-sh/jot/internal/output"
	"github.com/jot-sh/jot/internal/store"
	"github.com/jot-sh/jot/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

// logger carries stderr diagnostics: corrupt-record warnings, watch
// events, and --verbose debug output.
var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "Plain-text task tracker for humans and agents",
	Long: `jot tracks tasks as human-readable text records, one per task,
stored either as flat files under a .jot directory or as jj commit
descriptions. Built for developers and coding agents coordinating work
on a repository.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "directory to locate the tracker from (default: working directory)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("JOT_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// openStore locates and opens the tracker, starting from --dir or the
// working directory.
func openStore() (*store.Store, error) {
	start := flagDir
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		start = cwd
	}
	return store.Open(start)
}

// resolveAgent returns the agent name for the current invocation:
// explicit value, then $JOT_AGENT, then the configured default, then
// $USER. May be empty; callers that need a name fall back further.
func resolveAgent(explicit string, cfg *config.Config) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("JOT_AGENT"); env != "" {
		return env
	}
	if cfg.DefaultAgent != "" {
		return cfg.DefaultAgent
	}
	return os.Getenv("USER")
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings logs records skipped during a lenient listing.
func printWarnings(warnings []store.Warning) {
	for _, w := range warnings {
		logger.Warn("skipping corrupt record", "id", w.ID, "err", w.Err)
	}
}

// loadTask resolves a full or partial id and loads its record.
func loadTask(s *store.Store, partial string) (*task.Task, error) {
	id, err := s.Resolve(partial)
	if err != nil {
		return nil, err
	}
	return s.Load(id)
}

// emitTask prints a mutated task: the full record as JSON in JSON
// mode, a one-line confirmation otherwise.
func emitTask(t *task.Task, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, format, args...)
	return nil
}
