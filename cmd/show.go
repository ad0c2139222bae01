package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a task in full",
	Long: `Displays every field of a task including its notes. ID may be a full
identifier or any unambiguous prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, time.Now())
	default:
		output.TaskDetail(os.Stdout, t)
	}
	return nil
}
