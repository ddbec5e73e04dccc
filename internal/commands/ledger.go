package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/auth"
	"github.com/pocketledger/pocketledger/internal/balance"
	"github.com/pocketledger/pocketledger/internal/console"
	"github.com/pocketledger/pocketledger/internal/importer"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/report"
)

// open unlocks the ledger for a one-shot command. Gate prompts go to stderr
// so stdout carries only the command's output.
func (a *app) open(cmd *cobra.Command) error {
	p := console.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err := a.unlock(p); err != nil {
		return err
	}
	return a.store.Initialize(cmd.Context())
}

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd)
		},
	}
}

func (a *app) runMenu(cmd *cobra.Command) error {
	p := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if err := a.unlock(p); err != nil {
		return err
	}
	if err := a.store.Initialize(cmd.Context()); err != nil {
		return err
	}
	menu := console.NewMenu(p, a.store, a.exporter(""), a.cfg.Accounts, a.cfg.Report.Currency, a.log)
	return menu.Run(cmd.Context())
}

func newAddCommand(a *app) *cobra.Command {
	var in ledger.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			id, err := a.store.AppendInput(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d added.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Account, "account", "", "account label, e.g. BANK (required)")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "non-negative amount (required)")
	cmd.Flags().StringVar(&in.Type, "type", "", "Income or Expense (required)")
	cmd.Flags().StringVar(&in.Note, "note", "", "free-form note")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every transaction, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			txns, err := a.store.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			console.WriteTable(cmd.OutOrStdout(), txns)
			return nil
		},
	}
}

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show per-account and total balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			sums, err := a.store.SumByAccountAndType(cmd.Context())
			if err != nil {
				return err
			}
			console.WriteBalances(cmd.OutOrStdout(), balance.FromSums(sums), a.cfg.Report.Currency)
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var format string
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a PDF or CSV report of the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp := a.exporter(outDir)
			var run func() (string, error)
			switch format {
			case "pdf":
				run = func() (string, error) { return exp.Export(cmd.Context()) }
			case "csv":
				run = func() (string, error) { return exp.ExportCSV(cmd.Context()) }
			default:
				return fmt.Errorf("unknown format %q (want pdf or csv)", format)
			}

			if err := a.open(cmd); err != nil {
				return err
			}
			path, err := run()
			if errors.Is(err, report.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found to export.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pdf", "report format: pdf or csv")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")

	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	var format string
	var account string

	cmd := &cobra.Command{
		Use:   "import [file.csv...]",
		Short: "Append transactions from CSV files (default: the import/ inbox)",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (want one of %s)",
					format, strings.Join(importer.DefaultRegistry().Formats(), ", "))
			}

			inbox := len(args) == 0
			var files []importer.FileInfo
			if inbox {
				found, err := importer.Scan(a.dir)
				if err != nil {
					return err
				}
				files = found
			} else {
				for _, arg := range args {
					files = append(files, importer.FileInfo{Name: filepath.Base(arg), Path: arg})
				}
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No files to import.")
				return nil
			}

			if err := a.open(cmd); err != nil {
				return err
			}
			total := 0
			for _, file := range files {
				n, err := a.importFile(cmd, parser, file.Path, account)
				if err != nil {
					return err
				}
				if inbox {
					filed, err := importer.MarkProcessed(a.dir, file.Name)
					if err != nil {
						return err
					}
					if filed != file.Name {
						log := logger.FromContext(cmd.Context())
						log.Info().Str("file", file.Name).Str("processed_as", filed).
							Msg("name already used in processed/, filed under a new name")
					}
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions.\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "ledger", "file format: ledger (exported CSV) or statement (Date,Description,Amount)")
	cmd.Flags().StringVar(&account, "account", "", "account to book statement rows against")

	return cmd
}

// importFile parses a whole file before the first insert so a bad row
// leaves the ledger untouched.
func (a *app) importFile(cmd *cobra.Command, parser importer.Parser, path, account string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	txns, err := parser.Parse(f, account)
	if err != nil {
		return 0, fmt.Errorf("importing %s: %w", path, err)
	}
	for _, txn := range txns {
		if _, err := a.store.Append(cmd.Context(), txn); err != nil {
			return 0, err
		}
	}
	log := logger.FromContext(cmd.Context())
	log.Info().Str("file", path).Str("format", parser.Format()).Int("rows", len(txns)).Msg("import complete")
	return len(txns), nil
}

func newPasswdCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the tracker password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := console.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			current, err := p.Secret("Current password")
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			ok, err := a.gate.Verify(current)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("passwd: %w", auth.ErrAccessDenied)
			}
			if err := a.choosePassword(p, "New password"); err != nil {
				return err
			}
			return nil
		},
	}
}
