package models

import "fmt"

// InvalidInputError reports malformed operator input (an URL or symbol) caught
// before any network request is made.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

// InvalidFormatError reports an option code that failed structural validation.
// The offending value is always carried so the operator sees exactly what was
// decoded.
type InvalidFormatError struct {
	Value   string
	Pattern string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid option code %q: expected pattern %s", e.Value, e.Pattern)
}

// CalendarError reports a structurally valid code whose date digits do not
// form a real Gregorian calendar date. Codes are only checked against the
// calendar when a provider needs an expiration timestamp.
type CalendarError struct {
	Year  int
	Month int
	Day   int
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("invalid calendar date: %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

// NotFoundError reports a contract absent from every payload attempted,
// including the fallback expiration sweep. CandidatesTried counts the
// candidate expirations discovered in the default payload, not the raw number
// of fetch attempts.
type NotFoundError struct {
	Symbol          OptionSymbol
	CandidatesTried int
}

func (e *NotFoundError) Error() string {
	if e.CandidatesTried == 0 {
		return fmt.Sprintf("contract %s not found in default option-chain response, and no expirations list available; the provider may have changed the payload shape", e.Symbol)
	}

	return fmt.Sprintf("contract %s not found after checking %d expirations", e.Symbol, e.CandidatesTried)
}
