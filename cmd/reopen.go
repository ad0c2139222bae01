package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/task"
)

var reopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Reopen a task",
	Long: `Returns a task to open from any status, clearing the agent and the
completion time. Reopening an already-open task is a no-op that still
touches the updated timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runReopen,
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}

func runReopen(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	t.Reopen(task.Clock())
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Reopened %s", t.ID)
}
