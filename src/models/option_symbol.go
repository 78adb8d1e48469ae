package models

import (
	"fmt"
	"strings"
)

// OptionSymbol is the exact exchange-style contract identifier used for
// full-string matching against provider payloads, e.g. "AMD271217C00370000".
type OptionSymbol string

func (s OptionSymbol) String() string {
	return string(s)
}

// NewOptionSymbol composes the contract symbol from an underlying ticker and
// decoded code components. The raw 8-digit strike field is carried over
// verbatim: providers key on the exact zero-padded digits, so the decimal
// strike is never re-formatted.
func NewOptionSymbol(underlying string, c *OptionCodeComponents) OptionSymbol {
	ticker := fmt.Sprintf("%s%02d%02d%02d%s%s",
		strings.ToUpper(strings.TrimSpace(underlying)),
		c.Year%100, c.Month, c.Day,
		c.OptionType.Letter(), c.StrikeRaw)

	return OptionSymbol(ticker)
}
