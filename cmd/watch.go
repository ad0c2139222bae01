package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/output"
	"github.com/jot-sh/jot/internal/task"
	"github.com/jot-sh/jot/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live task list that refreshes on changes",
	Long: `Renders the task list and re-renders whenever a record changes on
disk. Only available with the fs backend; jj has no files to watch.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	recordsDir, ok := st.RecordsDir()
	if !ok {
		return clierr.Newf(clierr.InvalidInput,
			"watch requires the fs backend (this tracker uses %q)", st.Config().Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	render := func() error {
		tasks, warnings, err := st.List()
		if err != nil {
			return err
		}
		printWarnings(warnings)
		idx := task.IndexStatuses(tasks)

		var live []*task.Task
		for _, t := range tasks {
			if t.Status != task.StatusDone {
				live = append(live, t)
			}
		}
		rows := output.Rows(live, idx)

		if outputFormat() == output.FormatCompact {
			output.TaskCompact(os.Stdout, rows)
		} else {
			output.TaskTable(os.Stdout, rows)
		}
		return nil
	}

	if err := render(); err != nil {
		return err
	}

	w, err := watcher.New(recordsDir, func() {
		clearScreen()
		if renderErr := render(); renderErr != nil {
			logger.Warn("rendering task list", "err", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		logger.Warn("file watcher", "err", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move
// the cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
