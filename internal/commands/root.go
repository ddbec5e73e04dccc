package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/auth"
	"github.com/pocketledger/pocketledger/internal/buildinfo"
	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/report"
)

// app carries the resolved configuration and collaborators shared by every
// subcommand.
type app struct {
	dir        string
	configPath string
	verbose    bool

	cfg   *config.Config
	log   zerolog.Logger
	store *ledger.Store
	gate  *auth.Gate
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Without a subcommand it opens the interactive menu.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "pocketledger",
		Short:   "Personal income and expense tracker",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.dir, "dir", ".", "data directory holding the ledger and password file")
	flags.StringVar(&a.configPath, "config", "", "config file (default <dir>/"+config.FileName+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newInitCommand(a),
		newMenuCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newBalanceCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newPasswdCommand(a),
	)

	return rootCmd
}

// load resolves the data directory and config, then builds the logger,
// store and gate from them.
func (a *app) load(cmd *cobra.Command) error {
	absDir, err := filepath.Abs(a.dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.dir = absDir

	cfg, err := config.Resolve(a.dir, a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = logger.NewConsole(cmd.ErrOrStderr(), level)
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))

	a.store = ledger.NewStore(cfg.Storage.DBPath, a.log)
	a.gate = auth.NewGate(cfg.Auth.PasswordFile)

	a.log.Debug().
		Str("dir", a.dir).
		Str("db", cfg.Storage.DBPath).
		Str("password_file", cfg.Auth.PasswordFile).
		Msg("configuration loaded")
	return nil
}

func (a *app) exporter(outDir string) *report.Exporter {
	if outDir == "" {
		outDir = a.cfg.Report.OutputDir
	}
	return report.NewExporter(a.store, report.Options{
		OutputDir: outDir,
		Title:     a.cfg.Report.Title,
		Currency:  a.cfg.Report.Currency,
		Compress:  a.cfg.Report.Compress,
	}, a.log)
}
