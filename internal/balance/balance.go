// Package balance folds ledger amounts into per-account and total balances.
//
// Both the grouped sums from the store and raw transaction rows go through
// the same Sheet.Add, so the balance view and the report summary always agree.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

// AccountBalance is the net balance of one account label.
type AccountBalance struct {
	Account string
	Balance decimal.Decimal
}

// Sheet accumulates Income minus Expense per account. The zero value is an
// empty sheet ready for use.
type Sheet struct {
	order   []string
	byAcct  map[string]decimal.Decimal
	income  decimal.Decimal
	expense decimal.Decimal
	entries int
}

// Add folds one amount into the sheet. Amounts with a type other than Income
// or Expense are ignored.
func (s *Sheet) Add(account string, t model.EntryType, amount decimal.Decimal) {
	var signed decimal.Decimal
	switch t {
	case model.Income:
		s.income = s.income.Add(amount)
		signed = amount
	case model.Expense:
		s.expense = s.expense.Add(amount)
		signed = amount.Neg()
	default:
		return
	}

	if s.byAcct == nil {
		s.byAcct = make(map[string]decimal.Decimal)
	}
	if _, ok := s.byAcct[account]; !ok {
		s.order = append(s.order, account)
	}
	s.byAcct[account] = s.byAcct[account].Add(signed)
	s.entries++
}

// FromSums folds the store's grouped (account, type) sums.
func FromSums(sums []model.AccountTypeSum) Sheet {
	var s Sheet
	for _, row := range sums {
		s.Add(row.Account, row.Type, row.Total)
	}
	return s
}

// FromTransactions folds raw transaction rows.
func FromTransactions(txns []model.Transaction) Sheet {
	var s Sheet
	for _, txn := range txns {
		s.Add(txn.Account, txn.Type, txn.Amount)
	}
	return s
}

// Empty reports whether nothing was folded in. An empty sheet means "no
// data", not a computed zero balance.
func (s Sheet) Empty() bool {
	return s.entries == 0
}

// Accounts returns per-account balances in the order accounts were first seen.
func (s Sheet) Accounts() []AccountBalance {
	out := make([]AccountBalance, 0, len(s.order))
	for _, acct := range s.order {
		out = append(out, AccountBalance{Account: acct, Balance: s.byAcct[acct]})
	}
	return out
}

// Balance returns the net balance of one account and whether it was seen.
func (s Sheet) Balance(account string) (decimal.Decimal, bool) {
	b, ok := s.byAcct[account]
	return b, ok
}

// Income is the sum of all Income amounts.
func (s Sheet) Income() decimal.Decimal { return s.income }

// Expense is the sum of all Expense amounts.
func (s Sheet) Expense() decimal.Decimal { return s.expense }

// Total is the sum of every account balance, i.e. Income - Expense.
func (s Sheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, acct := range s.order {
		total = total.Add(s.byAcct[acct])
	}
	return total
}
