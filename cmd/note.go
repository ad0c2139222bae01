package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/task"
)

var noteCmd = &cobra.Command{
	Use:   "note ID BODY",
	Short: "Append a note to a task",
	Long: `Appends a timestamped note. Notes are append-only; there is no way
to edit or remove one. The author defaults to the claiming agent,
falling back to the usual agent resolution.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runNote,
}

func init() {
	noteCmd.Flags().String("author", "", "note author (default: claiming agent)")
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = t.Agent
	}
	if author == "" {
		author = resolveAgent("", st.Config())
	}

	body := strings.Join(args[1:], " ")
	t.AddNote(author, body, task.Clock())
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Noted %s (%d notes)", t.ID, len(t.Notes))
}
