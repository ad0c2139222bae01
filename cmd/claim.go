package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/task"
)

var claimCmd = &cobra.Command{
	Use:   "claim ID",
	Short: "Claim a task",
	Long: `Marks an open task as claimed by an agent. The agent name comes from
--agent, then $JOT_AGENT, then the configured default, then $USER.
Claiming does not check blockers; a blocked task can be claimed.`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

func init() {
	claimCmd.Flags().String("agent", "", "agent name to claim as")
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	t, err := loadTask(st, args[0])
	if err != nil {
		return err
	}

	agentFlag, _ := cmd.Flags().GetString("agent")
	agent := resolveAgent(agentFlag, st.Config())
	if agent == "" {
		agent = task.FallbackAuthor
	}

	if err := t.Claim(agent, task.Clock()); err != nil {
		return err
	}
	if err := st.Save(t); err != nil {
		return err
	}
	return emitTask(t, "Claimed %s as %s", t.ID, t.Agent)
}
