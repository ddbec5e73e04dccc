// Package ledgercsv reads and writes transactions as CSV.
package ledgercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pocketledger/pocketledger/internal/model"
)

// Header is the CSV header row.
const Header = "id,account,amount,type,note,date"

const (
	numFields  = 6
	colID      = 0
	colAccount = 1
	colAmount  = 2
	colType    = 3
	colNote    = 4
	colDate    = 5
)

// WriteTransactions writes txns with a header row.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads a CSV produced by WriteTransactions. The id column
// is ignored; every row goes through the same coercion as typed input.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	if txn.ID != 0 {
		row[colID] = strconv.FormatInt(txn.ID, 10)
	}
	row[colAccount] = txn.Account
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colType] = string(txn.Type)
	row[colNote] = txn.Note
	row[colDate] = txn.DateString()
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. A blank date is
// rejected rather than defaulted to today.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if strings.TrimSpace(record[colDate]) == "" {
		return model.Transaction{}, &model.ValidationError{Field: "date", Err: model.ErrInvalidDate}
	}

	var id int64
	if record[colID] != "" {
		parsed, err := strconv.ParseInt(record[colID], 10, 64)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
		}
		id = parsed
	}

	txn, err := model.NewTransaction(record[colAccount], record[colAmount], record[colType], record[colNote], record[colDate], time.Time{})
	if err != nil {
		return model.Transaction{}, err
	}
	txn.ID = id
	return txn, nil
}
