package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jot-sh/jot/internal/clierr"
	"github.com/jot-sh/jot/internal/config"
	"github.com/jot-sh/jot/internal/output"
	"github.com/jot-sh/jot/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a tracker in the current directory",
	Long: `Creates a .jot directory with config.yml. With --backend fs (the
default) task records live as flat files under .jot/tasks. With
--backend jj records are stored as commit descriptions in the
surrounding jj repository.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("backend", config.BackendDir, "storage backend (fs or jj)")
	initCmd.Flags().String("agent", "", "default agent name recorded in config")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = cwd
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	backend, _ := cmd.Flags().GetString("backend")
	if backend != config.BackendDir && backend != config.BackendJJ {
		return clierr.Newf(clierr.InvalidInput, "unknown backend %q (expected fs or jj)", backend)
	}

	agent, _ := cmd.Flags().GetString("agent")

	st, err := store.Init(absDir, backend, agent)
	if err != nil {
		return err
	}
	cfg := st.Config()

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     filepath.Join(absDir, store.DirName),
			"backend": cfg.Backend,
			"config":  cfg.Path(),
		})
	}

	output.Messagef(os.Stdout, "Initialized tracker in %s", filepath.Join(absDir, store.DirName))
	output.Messagef(os.Stdout, "  Config:  %s", cfg.Path())
	output.Messagef(os.Stdout, "  Backend: %s", cfg.Backend)
	return nil
}
