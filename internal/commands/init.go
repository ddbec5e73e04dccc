package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/console"
)

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Create the config, ledger database and password",
		Args:  cobra.MaximumNArgs(1),
		// The directory argument replaces --dir before anything is read, so
		// a config in the working directory never affects the target.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.dir = args[0]
			}
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return a.runInit(cmd, p)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command, p *console.Prompter) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", a.dir, err)
	}

	// Write pocketledger.yaml unless one is already there.
	cfgPath := a.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(a.dir, config.FileName)
	}
	_, err := os.Stat(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("checking config: %w", err)
	}

	if err := a.store.Initialize(cmd.Context()); err != nil {
		return err
	}

	exists, err := a.gate.Exists()
	if err != nil {
		return err
	}
	if !exists {
		if err := a.choosePassword(p, "Set a password for your tracker"); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized pocketledger at %s\n", a.dir)
	return nil
}
