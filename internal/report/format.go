package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders d with thousands separators and two decimals,
// prefixed by currency when it is set: "Rs. 1,500.00".
func FormatAmount(currency string, d decimal.Decimal) string {
	s := printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// currencyLabel strips trailing punctuation for column headers: "Rs." -> "Rs".
func currencyLabel(currency string) string {
	return strings.TrimRight(strings.TrimSpace(currency), ".")
}
