package money

import (
	"log/slog"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts for display in one locale and currency
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
	scale   int
}

// NewFormatter parses the locale tag and ISO currency code. Unknown values fall back to es-CO and COP.
func NewFormatter(locale, code string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		slog.Warn("Invalid display locale, using es-CO", "provided", locale, "error", err)
		tag = language.MustParse("es-CO")
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		slog.Warn("Invalid display currency, using COP", "provided", code, "error", err)
		unit = currency.MustParseISO("COP")
	}

	scale, _ := currency.Standard.Rounding(unit)

	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
		scale:   scale,
	}
}

// Format rounds to the currency's standard scale and prints symbol plus grouped number
func (f *Formatter) Format(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit)) + " " + f.Number(amount)
}

// Number prints a plain grouped number without a currency symbol
func (f *Formatter) Number(amount float64) string {
	return f.printer.Sprintf("%.*f", f.scale, f.Round(amount))
}

// Round rounds half away from zero at the currency's standard scale
func (f *Formatter) Round(amount float64) float64 {
	factor := math.Pow10(f.scale)
	return math.Round(amount*factor) / factor
}

// Currency returns the ISO code in use
func (f *Formatter) Currency() string {
	return f.unit.String()
}
