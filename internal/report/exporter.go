// Package report renders the ledger into files meant for printing or
// archival: a styled PDF summary and a plain CSV dump.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pocketledger/pocketledger/internal/balance"
	"github.com/pocketledger/pocketledger/internal/ledgercsv"
	"github.com/pocketledger/pocketledger/internal/model"
)

// ErrNoData is returned when there is nothing to export. No file is written.
var ErrNoData = errors.New("no transactions found to export")

const fileStampLayout = "20060102_150405"

// Lister supplies the transactions to export, newest date first.
type Lister interface {
	ListAll(ctx context.Context) ([]model.Transaction, error)
}

// Options controls where and how reports are written.
type Options struct {
	OutputDir string
	Title     string
	Currency  string
	Compress  bool
	Now       func() time.Time
}

// Exporter writes report files from a fresh read of the ledger.
type Exporter struct {
	src  Lister
	opts Options
	log  zerolog.Logger
}

// NewExporter creates an Exporter reading from src.
func NewExporter(src Lister, opts Options, log zerolog.Logger) *Exporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = "Personal Expense Report"
	}
	return &Exporter{
		src:  src,
		opts: opts,
		log:  log.With().Str("component", "report").Logger(),
	}
}

// FileName returns the report file name for a generation time and extension.
// "Expense_Report_20240103_154500.pdf"
func FileName(at time.Time, ext string) string {
	return fmt.Sprintf("Expense_Report_%s.%s", at.Format(fileStampLayout), ext)
}

// Export writes the PDF report and returns its path.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	txns, at, err := e.load(ctx)
	if err != nil {
		return "", err
	}

	doc := Document{
		Title:       e.opts.Title,
		Currency:    e.opts.Currency,
		GeneratedAt: at.Format(generatedLayout),
		Summary:     balance.FromTransactions(txns),
		Rows:        txns,
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, doc, e.opts.Compress); err != nil {
		return "", err
	}
	return e.write(FileName(at, "pdf"), buf.Bytes(), len(txns))
}

// ExportCSV writes every transaction as CSV and returns the file path.
func (e *Exporter) ExportCSV(ctx context.Context) (string, error) {
	txns, at, err := e.load(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := ledgercsv.WriteTransactions(&buf, txns); err != nil {
		return "", fmt.Errorf("encoding CSV: %w", err)
	}
	return e.write(FileName(at, "csv"), buf.Bytes(), len(txns))
}

func (e *Exporter) load(ctx context.Context) ([]model.Transaction, time.Time, error) {
	txns, err := e.src.ListAll(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, time.Time{}, ErrNoData
	}
	return txns, e.opts.Now(), nil
}

func (e *Exporter) write(name string, data []byte, rows int) (string, error) {
	dir := e.opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	e.log.Info().Str("path", path).Int("rows", rows).Msg("report written")
	return path, nil
}
