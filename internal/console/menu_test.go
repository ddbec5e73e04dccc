package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/report"
)

type fixture struct {
	store  *ledger.Store
	outDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	store := ledger.NewStore(filepath.Join(dir, "expenses.db"), zerolog.Nop())
	require.NoError(t, store.Initialize(context.Background()))
	return fixture{store: store, outDir: filepath.Join(dir, "reports")}
}

func (f fixture) run(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	exporter := report.NewExporter(f.store, report.Options{
		OutputDir: f.outDir,
		Currency:  "Rs.",
		Now:       func() time.Time { return time.Date(2024, 5, 17, 9, 30, 0, 0, time.Local) },
	}, zerolog.Nop())
	menu := NewMenu(NewPrompter(strings.NewReader(script), &out), f.store, exporter,
		[]string{"BANK", "PB"}, "Rs.", zerolog.Nop())
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

const scenario = "" +
	"1\nbank\n1000\nincome\nsalary\n2024-01-01\n" +
	"1\nBANK\n200\nExpense\ngroceries\n2024-01-02\n" +
	"1\npb\n500\nIncome\n\n2024-01-03\n"

func TestMenu_AddListBalance(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, scenario+"2\n3\n5\n")

	assert.Equal(t, 3, strings.Count(out, "Transaction added."))
	assert.Contains(t, out, "Enter account name ( BANK / PB ): ")

	i3 := strings.Index(out, "2024-01-03")
	i2 := strings.Index(out, "2024-01-02")
	i1 := strings.Index(out, "2024-01-01")
	require.True(t, i3 > 0 && i2 > 0 && i1 > 0, out)
	assert.Less(t, i3, i2)
	assert.Less(t, i2, i1)

	assert.Contains(t, out, " - BANK: Rs. 800.00")
	assert.Contains(t, out, " - PB: Rs. 500.00")
	assert.Contains(t, out, "Total Balance: Rs. 1,300.00")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestMenu_EmptyLedger(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "2\n3\n4\n5\n")

	assert.Equal(t, 2, strings.Count(out, "No transactions found.\n"))
	assert.Contains(t, out, "No transactions found to export.")
	assert.NotContains(t, out, "Total Balance")

	_, err := os.Stat(f.outDir)
	assert.True(t, errors.Is(err, os.ErrNotExist), "no report directory for an empty ledger")
}

func TestMenu_BadInputKeepsRunning(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		"1\nBANK\nabc\nIncome\n\n\n" +
		"1\nBANK\n10\nTransfer\n\n\n" +
		"9\n5\n")

	assert.Contains(t, out, "Error: invalid amount")
	assert.Contains(t, out, "Error: invalid type")
	assert.Contains(t, out, "Invalid choice. Try again.")
	assert.NotContains(t, out, "Transaction added.")

	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMenu_ExportPDF(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, scenario+"4\n5\n")

	want := filepath.Join(f.outDir, "Expense_Report_20240517_093000.pdf")
	assert.Contains(t, out, "PDF report generated: "+want)
	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestMenu_EOFExits(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "1\nBANK\n")
	assert.NotContains(t, out, "Transaction added.")

	out = f.run(t, "")
	assert.Contains(t, out, "Choose an option: ")
}

func TestMenu_StorageErrorEndsLoop(t *testing.T) {
	dir := t.TempDir()
	store := ledger.NewStore(dir, zerolog.Nop())
	var out bytes.Buffer
	menu := NewMenu(NewPrompter(strings.NewReader("2\n5\n"), &out), store, nil, nil, "", zerolog.Nop())

	err := menu.Run(context.Background())
	require.Error(t, err)
	assert.False(t, model.IsValidation(err))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	txn, err := model.NewTransaction("BANK", "12.5", "Expense", "tea", "2024-02-03", time.Now())
	require.NoError(t, err)
	txn.ID = 7
	WriteTable(&buf, []model.Transaction{txn})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID   Account"))
	assert.Equal(t, "7    BANK              12.50 Expense  2024-02-03   tea", lines[2])
}

func TestPrompter_Line(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("first\r\nlast"), &out)

	s, err := p.Line("One")
	require.NoError(t, err)
	assert.Equal(t, "first", s)

	s, err = p.Line("Two")
	require.NoError(t, err)
	assert.Equal(t, "last", s, "final line without newline is still returned")

	_, err = p.Secret("Three")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "One: Two: Three: ", out.String())
}
