package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseGSD reports whether text is entirely a number and returns it.
// Surrounding whitespace is ignored; an empty string is not a number.
func ParseGSD(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
