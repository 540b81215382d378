package pdf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// formatMoney formatea con separador de miles y dos decimales según el locale.
// Ej: 1234567.5 → "$1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return printer.Sprintf("%s$%d,%02d", sign, whole.IntPart(), cents)
}
