package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/store"
	"github.com/jot-sh/jot/internal/task"
)

var blockCmd = &cobra.Command{
	Use:   "block ID --on TARGET",
	Short: "Record a dependency between tasks",
	Long: `Marks ID as blocked by TARGET. The dependency is stored on the
blocked task only; TARGET is not modified. Blocked state is derived at
read time, so finishing TARGET unblocks ID without another write.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlock,
}

var unblockCmd = &cobra.Command{
	Use:   "unblock ID --from TARGET",
	Short: "Remove a dependency between tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnblock,
}

func init() {
	blockCmd.Flags().String("on", "", "task this one is blocked by")
	_ = blockCmd.MarkFlagRequired("on")
	unblockCmd.Flags().String("from", "", "blocker to remove")
	_ = unblockCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}

func runBlock(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	on, _ := cmd.Flags().GetString("on")
	target, err := st.Resolve(on)
	if err != nil {
		return err
	}

	if err := t.Block(target, task.Clock()); err != nil {
		return err
	}
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Blocked %s on %s", t.ID, target)
}

func runUnblock(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	target, err := resolveBlocker(st, t, from)
	if err != nil {
		return err
	}

	if err := t.Unblock(target, task.Clock()); err != nil {
		return err
	}
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Unblocked %s from %s", t.ID, target)
}

// resolveBlocker resolves TARGET against the store, falling back to
// the task's own blocker list when the store has no match. Blockers
// can outlive their tasks (a blocker may have decayed), and those
// entries must still be removable.
func resolveBlocker(st *store.Store, t *task.Task, partial string) (string, error) {
	target, err := st.Resolve(partial)
	if err == nil {
		return target, nil
	}
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.TaskNotFound {
		return "", err
	}

	var matches []string
	for _, id := range t.BlockedBy {
		if strings.HasPrefix(id, partial) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return "", err
}
