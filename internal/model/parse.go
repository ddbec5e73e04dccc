package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAccount   = errors.New("account is required")
	ErrInvalidType    = errors.New("type must be Income or Expense")
	ErrInvalidAmount  = errors.New("amount must be a number")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount has more than 2 decimal places")
	ErrTooLarge       = errors.New("amount is too large to store to the cent")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
)

// ValidationError reports user input that could not be coerced into a
// Transaction field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err came from input validation rather than
// from storage.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NormalizeAccount trims and upper-cases an account label.
// "Bank " -> "BANK"
func NormalizeAccount(s string) (string, error) {
	acct := strings.ToUpper(strings.TrimSpace(s))
	if acct == "" {
		return "", &ValidationError{Field: "account", Value: s, Err: ErrEmptyAccount}
	}
	return acct, nil
}

// ParseEntryType folds user input onto the canonical literal.
// "income", " INCOME " -> Income
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", &ValidationError{Field: "type", Value: s, Err: ErrInvalidType}
}

// ParseAmount parses a non-negative amount with at most two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrInvalidAmount}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrInvalidAmount}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrNegativeAmount}
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrTooPrecise}
	}
	if !storableAmount(d) {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Err: ErrTooLarge}
	}
	return d, nil
}

// ParseDate parses YYYY-MM-DD. A blank string means the local calendar day
// of now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateFormat, trimmed)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return t, nil
}

// NewTransaction coerces raw user input into a validated Transaction.
// Fields are checked in the order the menu asks for them.
func NewTransaction(account, amount, entryType, note, date string, now time.Time) (Transaction, error) {
	acct, err := NormalizeAccount(account)
	if err != nil {
		return Transaction{}, err
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseEntryType(entryType)
	if err != nil {
		return Transaction{}, err
	}
	day, err := ParseDate(date, now)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Account: acct,
		Amount:  amt,
		Type:    typ,
		Note:    note,
		Date:    day,
	}, nil
}
