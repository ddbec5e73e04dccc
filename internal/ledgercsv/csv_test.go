package ledgercsv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
)

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		{
			ID:      3,
			Account: "PB",
			Amount:  decimal.RequireFromString("500"),
			Type:    model.Income,
			Date:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:      2,
			Account: "BANK",
			Amount:  decimal.RequireFromString("200.5"),
			Type:    model.Expense,
			Note:    "groceries, veg",
			Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteTransactions_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, sampleTxns()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "3,PB,500.00,Income,,2024-01-03", lines[1])
	assert.Equal(t, `2,BANK,200.50,Expense,"groceries, veg",2024-01-02`, lines[2])
}

func TestReadTransactions_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := sampleTxns()
	require.NoError(t, WriteTransactions(&buf, want))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Account, got[i].Account)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "row %d amount", i)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Note, got[i].Note)
		assert.Equal(t, want[i].DateString(), got[i].DateString())
	}
}

func TestReadTransactions_NormalizesInput(t *testing.T) {
	data := Header + "\n,bank,12,expense,coffee,2024-02-01\n"
	got, err := ReadTransactions(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].ID)
	assert.Equal(t, "BANK", got[0].Account)
	assert.Equal(t, model.Expense, got[0].Type)
}

func TestReadTransactions_InvalidRow(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want error
	}{
		{"bad amount", ",BANK,lots,Income,,2024-01-01", model.ErrInvalidAmount},
		{"bad type", ",BANK,1,Refund,,2024-01-01", model.ErrInvalidType},
		{"blank date", ",BANK,1,Income,,", model.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Header + "\n,BANK,1,Income,,2024-01-01\n" + tt.row + "\n"
			_, err := ReadTransactions(strings.NewReader(data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "row 3")
		})
	}
}

func TestReadTransactions_WrongFieldCount(t *testing.T) {
	_, err := ReadTransactions(strings.NewReader("a,b\n1,2\n"))
	require.Error(t, err)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
