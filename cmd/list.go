package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/output"
	"github.com/jot-sh/jot/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists live tasks ordered by creation time. Done tasks are hidden
unless --done or --all is given. Blocked state is derived, never
stored: an open task with an unfinished blocker displays as blocked.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("ready", false, "only open tasks with no unfinished blockers")
	listCmd.Flags().Bool("blocked", false, "only open tasks with unfinished blockers")
	listCmd.Flags().Bool("mine", false, "only tasks claimed by the current agent")
	listCmd.Flags().Bool("done", false, "only done tasks")
	listCmd.Flags().Bool("all", false, "include done tasks")
	listCmd.MarkFlagsMutuallyExclusive("ready", "blocked", "mine", "done", "all")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	tasks, warnings, err := st.List()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	idx := task.IndexStatuses(tasks)
	filtered := filterTasks(cmd, tasks, idx, resolveAgent("", st.Config()))
	rows := output.Rows(filtered, idx)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, rows)
	default:
		output.TaskTable(os.Stdout, rows)
	}
	return nil
}

func filterTasks(cmd *cobra.Command, tasks []*task.Task, idx task.StatusIndex, agent string) []*task.Task {
	ready, _ := cmd.Flags().GetBool("ready")
	blocked, _ := cmd.Flags().GetBool("blocked")
	mine, _ := cmd.Flags().GetBool("mine")
	done, _ := cmd.Flags().GetBool("done")
	all, _ := cmd.Flags().GetBool("all")

	keep := func(t *task.Task) bool {
		switch {
		case ready:
			return t.Ready(idx)
		case blocked:
			return t.Status == task.StatusOpen && t.Blocked(idx)
		case mine:
			return t.Status == task.StatusClaimed && t.Agent == agent
		case done:
			return t.Status == task.StatusDone
		case all:
			return true
		default:
			return t.Status != task.StatusDone
		}
	}

	filtered := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
