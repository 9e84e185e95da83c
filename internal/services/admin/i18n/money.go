package i18n

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money formats amount as "<currency> <amount>" with the printer's digit
// grouping and at most two fraction digits.
func Money(p *message.Printer, currency string, amount decimal.Decimal) string {
	if p == nil {
		p = Printer(Default())
	}
	value, _ := amount.Round(2).Float64()
	formatted := p.Sprint(number.Decimal(value, number.MaxFractionDigits(2)))
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}
