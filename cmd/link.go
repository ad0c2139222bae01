package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/task"
)

var linkCmd = &cobra.Command{
	Use:   "link ID (--relates-to | --supersedes | --duplicates) TARGET",
	Short: "Link two tasks",
	Long: `Records a typed, one-directional link on ID. Exactly one of the kind
flags must be given. The target task is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	linkCmd.Flags().String("relates-to", "", "related task")
	linkCmd.Flags().String("supersedes", "", "task this one supersedes")
	linkCmd.Flags().String("duplicates", "", "task this one duplicates")
	// Accept the wire-format spelling too: --relates_to works like --relates-to.
	linkCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	linkCmd.MarkFlagsOneRequired("relates-to", "supersedes", "duplicates")
	linkCmd.MarkFlagsMutuallyExclusive("relates-to", "supersedes", "duplicates")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	partial, kind, err := linkFlags(cmd)
	if err != nil {
		return err
	}
	target, err := st.Resolve(partial)
	if err != nil {
		return err
	}

	if err := t.AddLink(target, kind, task.Clock()); err != nil {
		return err
	}
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Linked %s %s %s", t.ID, kind, target)
}

func linkFlags(cmd *cobra.Command) (string, task.LinkKind, error) {
	kinds := map[string]task.LinkKind{
		"relates-to": task.KindRelatesTo,
		"supersedes": task.KindSupersedes,
		"duplicates": task.KindDuplicates,
	}
	for flag, kind := range kinds {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			return v, kind, nil
		}
	}
	return "", "", clierr.New(clierr.InvalidInput, "link target must not be empty")
}
