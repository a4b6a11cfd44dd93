// Package money formatea montos en Rupiah para reportes y logs.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// FormatIDR formatea un monto como "Rp 1.234.500" (o "Rp 1.234.500,50" con centavos).
// Los negativos se prefijan con "-" (ej. diferencias de caja faltantes).
func FormatIDR(d decimal.Decimal) string {
	abs := d.Abs().Round(2)
	whole := abs.IntPart()
	s := printer.Sprintf("Rp %d", whole)

	frac := abs.Sub(decimal.NewFromInt(whole))
	if !frac.IsZero() {
		s += fmt.Sprintf(",%02d", frac.Shift(2).IntPart())
	}
	if d.IsNegative() && !abs.IsZero() {
		s = "-" + s
	}
	return s
}

// FormatSigned como FormatIDR pero con "+" explícito para montos positivos.
func FormatSigned(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatIDR(d)
	}
	return FormatIDR(d)
}
