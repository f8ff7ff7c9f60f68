package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Korean)

// FormatAmount renders an amount with thousands separators, e.g. 105,000.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}
