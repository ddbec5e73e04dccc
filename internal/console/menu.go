package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pocketledger/pocketledger/internal/balance"
	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/report"
)

// Ledger is the part of the store the menu drives.
type Ledger interface {
	AppendInput(ctx context.Context, in ledger.Input) (int64, error)
	ListAll(ctx context.Context) ([]model.Transaction, error)
	SumByAccountAndType(ctx context.Context) ([]model.AccountTypeSum, error)
}

// ReportWriter produces the PDF report and returns the file it wrote.
type ReportWriter interface {
	Export(ctx context.Context) (string, error)
}

// Menu is the five-action interactive loop.
type Menu struct {
	p        *Prompter
	ledger   Ledger
	reports  ReportWriter
	accounts []string
	currency string
	log      zerolog.Logger
}

// NewMenu wires a Menu. accounts is only a hint shown in the add prompt.
func NewMenu(p *Prompter, l Ledger, reports ReportWriter, accounts []string, currency string, log zerolog.Logger) *Menu {
	return &Menu{
		p:        p,
		ledger:   l,
		reports:  reports,
		accounts: accounts,
		currency: currency,
		log:      log.With().Str("component", "menu").Logger(),
	}
}

// Run shows the menu until the user exits or input ends. Bad input is
// reported and the loop continues; storage failures end the loop.
func (m *Menu) Run(ctx context.Context) error {
	out := m.p.Out()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Personal Expense Tracker")
		fmt.Fprintln(out, "1. Add transaction")
		fmt.Fprintln(out, "2. View all transactions")
		fmt.Fprintln(out, "3. View balances")
		fmt.Fprintln(out, "4. Generate PDF report")
		fmt.Fprintln(out, "5. Exit")

		choice, err := m.p.Line("Choose an option")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = m.add(ctx)
		case "2":
			err = m.list(ctx)
		case "3":
			err = m.balances(ctx)
		case "4":
			err = m.export(ctx)
		case "5":
			fmt.Fprintln(out, "Bye!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Try again.")
			continue
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return nil
		case model.IsValidation(err):
			fmt.Fprintf(out, "Error: %v\n", err)
		default:
			return err
		}
	}
}

func (m *Menu) add(ctx context.Context) error {
	hint := "Enter account name"
	if len(m.accounts) > 0 {
		hint = fmt.Sprintf("Enter account name ( %s )", strings.Join(m.accounts, " / "))
	}

	var in ledger.Input
	fields := []struct {
		prompt string
		dst    *string
	}{
		{hint, &in.Account},
		{"Amount", &in.Amount},
		{"Type (Income/Expense)", &in.Type},
		{"Note (optional)", &in.Note},
		{"Date (YYYY-MM-DD) [Leave blank for today]", &in.Date},
	}
	for _, f := range fields {
		s, err := m.p.Line(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = s
	}

	id, err := m.ledger.AppendInput(ctx, in)
	if err != nil {
		return err
	}
	m.log.Debug().Int64("id", id).Msg("added from menu")
	fmt.Fprintln(m.p.Out(), "Transaction added.")
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	txns, err := m.ledger.ListAll(ctx)
	if err != nil {
		return err
	}
	WriteTable(m.p.Out(), txns)
	return nil
}

func (m *Menu) balances(ctx context.Context) error {
	sums, err := m.ledger.SumByAccountAndType(ctx)
	if err != nil {
		return err
	}
	WriteBalances(m.p.Out(), balance.FromSums(sums), m.currency)
	return nil
}

func (m *Menu) export(ctx context.Context) error {
	path, err := m.reports.Export(ctx)
	if errors.Is(err, report.ErrNoData) {
		fmt.Fprintln(m.p.Out(), "No transactions found to export.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(m.p.Out(), "PDF report generated: %s\n", path)
	return nil
}

// WriteTable prints transactions as fixed-width columns, or a no-data line.
func WriteTable(w io.Writer, txns []model.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}
	fmt.Fprintf(w, "%-4s %-10s %12s %-8s %-12s %s\n", "ID", "Account", "Amount", "Type", "Date", "Note")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, t := range txns {
		fmt.Fprintf(w, "%-4d %-10s %12s %-8s %-12s %s\n",
			t.ID, t.Account, t.Amount.StringFixed(2), t.Type, t.DateString(), t.Note)
	}
}

// WriteBalances prints per-account balances and the total. An empty sheet
// prints a no-data line instead of a zero total.
func WriteBalances(w io.Writer, sheet balance.Sheet, currency string) {
	if sheet.Empty() {
		fmt.Fprintln(w, "No transactions found.")
		return
	}
	fmt.Fprintln(w, "Account Balances:")
	for _, ab := range sheet.Accounts() {
		fmt.Fprintf(w, " - %s: %s\n", ab.Account, report.FormatAmount(currency, ab.Balance))
	}
	fmt.Fprintf(w, "\nTotal Balance: %s\n", report.FormatAmount(currency, sheet.Total()))
}
