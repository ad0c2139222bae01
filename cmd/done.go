package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/task"
)

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task done",
	Long: `Transitions a task to done and records the completion time. The
claiming agent is kept for attribution. An optional note is appended
as part of the same update.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	doneCmd.Flags().StringP("note", "n", "", "completion note to append")
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	note, _ := cmd.Flags().GetString("note")
	if err := t.Done(note, resolveAgent("", st.Config()), task.Clock()); err != nil {
		return err
	}
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Done: %s %s", t.ID, t.Summary)
}
