package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/task"
)

var newCmd = &cobra.Command{
	Use:     "new SUMMARY",
	Aliases: []string{"add", "create"},
	Short:   "Create a new task",
	Long: `Creates an open task with a fresh identifier. Multiple arguments are
joined into a single summary, so quoting is optional.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().IntP("priority", "p", task.PriorityDefault, "priority (1 highest .. 5 lowest)")
	newCmd.Flags().StringP("change", "c", "", "associated change reference (informational)")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	summary := strings.TrimSpace(strings.Join(args, " "))
	priority, _ := cmd.Flags().GetInt("priority")
	change, _ := cmd.Flags().GetString("change")

	t, err := task.New(summary, priority, change, task.Clock())
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Create(t); err != nil {
		return err
	}

	logger.Debug("created task", "id", t.ID, "priority", t.Priority)
	return emitTask(t, "Created task %s: %s", t.ID, t.Summary)
}
