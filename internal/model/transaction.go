package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the on-disk layout of Transaction.Date.
const DateFormat = "2006-01-02"

// EntryType says which side of the ledger a transaction sits on.
type EntryType string

const (
	Income  EntryType = "Income"
	Expense EntryType = "Expense"
)

// Valid reports whether t is one of the two canonical literals.
func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is a row in the transactions table.
type Transaction struct {
	ID      int64 // assigned by the store; zero until appended
	Account string
	Amount  decimal.Decimal // never negative, the sign lives in Type
	Type    EntryType
	Note    string
	Date    time.Time
	// RawDate keeps stored date text that is not a calendar date. Date is
	// zero when it is set.
	RawDate string
}

// storedDateLayouts are accepted when reading rows back. Older data files
// hold the date exactly as it was typed, e.g. "2024-1-5".
var storedDateLayouts = []string{DateFormat, "2006-1-2"}

// ParseStoredDate reads a date column value. Unparseable text is returned
// in a Transaction-ready form: zero time plus the raw string.
func ParseStoredDate(s string) (time.Time, string) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range storedDateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, ""
		}
	}
	return time.Time{}, s
}

// DateString returns the ISO-8601 calendar date, or the raw stored text for
// rows whose date could not be read.
func (t Transaction) DateString() string {
	if t.Date.IsZero() {
		return t.RawDate
	}
	return t.Date.Format(DateFormat)
}

// Validate checks the invariants the store relies on.
func (t Transaction) Validate() error {
	if t.Account == "" {
		return &ValidationError{Field: "account", Value: t.Account, Err: ErrEmptyAccount}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Value: string(t.Type), Err: ErrInvalidType}
	}
	if t.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Value: t.Amount.String(), Err: ErrNegativeAmount}
	}
	if !t.Amount.Equal(t.Amount.Round(2)) {
		return &ValidationError{Field: "amount", Value: t.Amount.String(), Err: ErrTooPrecise}
	}
	if !storableAmount(t.Amount) {
		return &ValidationError{Field: "amount", Value: t.Amount.String(), Err: ErrTooLarge}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	return nil
}

// AccountTypeSum is one row of the grouped-sum query.
type AccountTypeSum struct {
	Account string
	Type    EntryType
	Total   decimal.Decimal
}

// storableAmount reports whether d survives the REAL column to the cent.
func storableAmount(d decimal.Decimal) bool {
	return decimal.NewFromFloat(d.InexactFloat64()).Round(2).Equal(d)
}
