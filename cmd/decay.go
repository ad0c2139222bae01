package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jot-sh/jot/internal/output"
	"github.com/jot-sh/jot/internal/span"
	"github.com/jot-sh/jot/internal/store"
	"github.com/jot-sh/jot/internal/task"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Archive and remove old done tasks",
	Long: `Removes tasks that have been done for longer than the decay
threshold, appending a summary of each to the archive log first. The
threshold comes from --before or the configured decay_after. Running
decay twice is harmless; the second run finds nothing.`,
	RunE: runDecay,
}

func init() {
	decayCmd.Flags().String("before", "", "age threshold, e.g. 7d or 36h (default from config)")
	decayCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(decayCmd)
}

func runDecay(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	threshold, err := decayThreshold(cmd, st)
	if err != nil {
		return err
	}
	now := task.Clock()
	cutoff := now.Add(-threshold)

	tasks, warnings, err := st.List()
	if err != nil {
		return err
	}
	printWarnings(warnings)

	var eligible []*task.Task
	for _, t := range tasks {
		if t.Decayable(cutoff) {
			eligible = append(eligible, t)
		}
	}

	if len(eligible) == 0 {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]any{"decayed": 0, "ids": []string{}})
		}
		output.Messagef(os.Stdout, "Nothing to decay")
		return nil
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
		ok, err := confirmDecay(eligible)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	ids := make([]string, len(eligible))
	for i, t := range eligible {
		ids[i] = t.ID
	}

	if err := st.Archive(ids, decayBlock(eligible, now, threshold)); err != nil {
		return err
	}
	logger.Debug("decayed tasks", "count", len(ids), "threshold", span.Format(threshold))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"decayed": len(ids), "ids": ids})
	}
	output.Messagef(os.Stdout, "Decayed %d task(s)", len(ids))
	return nil
}

// decayThreshold returns the age threshold from --before, falling back
// to the configured decay_after.
func decayThreshold(cmd *cobra.Command, st *store.Store) (time.Duration, error) {
	before, _ := cmd.Flags().GetString("before")
	if before != "" {
		return span.Parse(before)
	}
	return st.Config().DecayThreshold()
}

func confirmDecay(eligible []*task.Task) (bool, error) {
	for _, t := range eligible {
		fmt.Fprintf(os.Stderr, "  %s  %s\n", t.ID, t.Summary)
	}
	fmt.Fprintf(os.Stderr, "Decay %d task(s)? [y/N] ", len(eligible))
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

// decayBlock renders one archive-log block for this run: a header line
// followed by one line per removed task.
func decayBlock(eligible []*task.Task, now time.Time, threshold time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== decay %s (older than %s) ===\n",
		now.Format(time.RFC3339), span.Format(threshold))
	for _, t := range eligible {
		fmt.Fprintf(&b, "%s p%d done %s %s\n",
			t.ID, t.Priority, t.DoneAt.Format(time.RFC3339), t.Summary)
	}
	return b.String()
}
