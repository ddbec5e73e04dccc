package balance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(account string, amount string, t model.EntryType) model.Transaction {
	return model.Transaction{
		Account: account,
		Amount:  dec(amount),
		Type:    t,
		Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// groupSums mimics the store's GROUP BY account, type query.
func groupSums(txns []model.Transaction) []model.AccountTypeSum {
	type key struct {
		acct string
		typ  model.EntryType
	}
	totals := make(map[key]decimal.Decimal)
	var order []key
	for _, tx := range txns {
		k := key{tx.Account, tx.Type}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(tx.Amount)
	}
	sums := make([]model.AccountTypeSum, 0, len(order))
	for _, k := range order {
		sums = append(sums, model.AccountTypeSum{Account: k.acct, Type: k.typ, Total: totals[k]})
	}
	return sums
}

func TestFromSums_Scenario(t *testing.T) {
	sheet := FromSums([]model.AccountTypeSum{
		{Account: "BANK", Type: model.Expense, Total: dec("200")},
		{Account: "BANK", Type: model.Income, Total: dec("1000")},
		{Account: "PB", Type: model.Income, Total: dec("500")},
	})

	require.False(t, sheet.Empty())
	accts := sheet.Accounts()
	require.Len(t, accts, 2)
	assert.Equal(t, "BANK", accts[0].Account)
	assert.Equal(t, "800.00", accts[0].Balance.StringFixed(2))
	assert.Equal(t, "PB", accts[1].Account)
	assert.Equal(t, "500.00", accts[1].Balance.StringFixed(2))
	assert.Equal(t, "1300.00", sheet.Total().StringFixed(2))
}

func TestFromTransactions_Summary(t *testing.T) {
	sheet := FromTransactions([]model.Transaction{
		txn("PB", "500", model.Income),
		txn("BANK", "200", model.Expense),
		txn("BANK", "1000", model.Income),
	})
	assert.Equal(t, "1500.00", sheet.Income().StringFixed(2))
	assert.Equal(t, "200.00", sheet.Expense().StringFixed(2))
	assert.Equal(t, "1300.00", sheet.Total().StringFixed(2))
}

func TestExpenseOnlyAccountIsNegative(t *testing.T) {
	sheet := FromTransactions([]model.Transaction{txn("CARD", "75.25", model.Expense)})
	b, ok := sheet.Balance("CARD")
	require.True(t, ok)
	assert.Equal(t, "-75.25", b.StringFixed(2))
	assert.Equal(t, "-75.25", sheet.Total().StringFixed(2))
}

func TestEmptySheet(t *testing.T) {
	sheet := FromSums(nil)
	assert.True(t, sheet.Empty())
	assert.Empty(t, sheet.Accounts())

	var zero Sheet
	assert.True(t, zero.Empty())
	_, ok := zero.Balance("BANK")
	assert.False(t, ok)
}

func TestAddIgnoresUnknownType(t *testing.T) {
	var s Sheet
	s.Add("BANK", "Transfer", dec("10"))
	assert.True(t, s.Empty())
}

func TestSumsAndTransactionsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	accounts := []string{"BANK", "PB", "CASH", "CARD"}

	for round := 0; round < 50; round++ {
		var txns []model.Transaction
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			typ := model.Income
			if rng.Intn(2) == 0 {
				typ = model.Expense
			}
			amount := decimal.New(rng.Int63n(1_000_000), -2)
			txns = append(txns, model.Transaction{
				Account: accounts[rng.Intn(len(accounts))],
				Amount:  amount,
				Type:    typ,
			})
		}

		fromRows := FromTransactions(txns)
		fromSums := FromSums(groupSums(txns))

		assert.Equal(t, fromRows.Empty(), fromSums.Empty(), "round %d", round)
		assert.True(t, fromRows.Total().Equal(fromSums.Total()), "round %d total", round)
		assert.True(t, fromRows.Income().Equal(fromSums.Income()), "round %d income", round)
		assert.True(t, fromRows.Expense().Equal(fromSums.Expense()), "round %d expense", round)
		assert.True(t, fromRows.Total().Equal(fromRows.Income().Sub(fromRows.Expense())), "round %d net", round)

		for _, ab := range fromRows.Accounts() {
			other, ok := fromSums.Balance(ab.Account)
			require.True(t, ok, "round %d account %s", round, ab.Account)
			assert.True(t, ab.Balance.Equal(other), "round %d account %s", round, ab.Account)
		}
	}
}
