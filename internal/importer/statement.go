package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

// StatementParser reads a plain bank statement with a Date,Description,Amount
// header. Credits are positive and debits negative.
type StatementParser struct{}

const (
	statementNumFields = 3
	statementColDate   = 0
	statementColDesc   = 1
	statementColAmount = 2
)

// statementDateFormats are tried in order. Day-first is what Indian bank
// exports use.
var statementDateFormats = []string{
	model.DateFormat,
	"02/01/2006",
	"02-01-2006",
}

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads the statement and books every row against account.
func (p *StatementParser) Parse(r io.Reader, account string) ([]model.Transaction, error) {
	acct, err := model.NormalizeAccount(account)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = statementNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseStatementRow(acct, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(account string, rec []string) (model.Transaction, error) {
	date, err := parseStatementDate(rec[statementColDate])
	if err != nil {
		return model.Transaction{}, err
	}

	raw := strings.ReplaceAll(strings.TrimSpace(rec[statementColAmount]), ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[statementColAmount], err)
	}

	entryType := model.Income
	if amount.IsNegative() {
		entryType = model.Expense
		amount = amount.Neg()
	}

	txn := model.Transaction{
		Account: account,
		Amount:  amount,
		Type:    entryType,
		Note:    strings.TrimSpace(rec[statementColDesc]),
		Date:    date,
	}
	if err := txn.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

func parseStatementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range statementDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", s, model.ErrInvalidDate)
}
