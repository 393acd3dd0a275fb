package utils

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter renders amounts in one currency for one locale.
type MoneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewMoneyFormatter falls back to es-AR / ARS on unparsable input.
func NewMoneyFormatter(locale, iso string) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-AR")
	}
	unit, err := currency.ParseISO(iso)
	if err != nil {
		unit = currency.MustParseISO("ARS")
	}
	return &MoneyFormatter{printer: message.NewPrinter(tag), unit: unit}
}

func (f *MoneyFormatter) Format(amount float64) string {
	return f.printer.Sprintf("%v %.2f", currency.NarrowSymbol(f.unit), amount)
}
