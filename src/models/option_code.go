package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OptionCode is the normalized public-facing option identifier: a 6-digit
// expiration date, a side letter and an 8-digit strike in currency
// thousandths, e.g. "271217c00370000".
type OptionCode string

const OptionCodePattern = `^\d{6}[cp]\d{8}$`

var optionCodeRegex = regexp.MustCompile(OptionCodePattern)

// NormalizeOptionCode accepts a bare code, a URL-path slug or a full
// marketplace URL and reduces it to the canonical lowercase code. No format
// validation happens here: garbage input survives normalization and fails
// later in NewOptionCodeComponents.
func NormalizeOptionCode(raw string) OptionCode {
	s := strings.TrimSpace(raw)

	if strings.Contains(s, "://") {
		if idx := strings.Index(s, "?"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimRight(s, "/")
		if idx := strings.LastIndex(s, "/"); idx >= 0 {
			s = s[idx+1:]
		}
	}

	if idx := strings.LastIndex(s, "---"); idx >= 0 {
		s = s[idx+3:]
	}

	return OptionCode(strings.ToLower(s))
}

// OptionCodeComponents holds the decoded parts of an OptionCode.
type OptionCodeComponents struct {
	Year       int
	Month      int
	Day        int
	OptionType OptionType
	Strike     float64
	StrikeRaw  string
}

// NewOptionCodeComponents decodes a normalized code. Validation is structural
// only: the date digits are not checked against the calendar, so a month of 13
// passes through and is caught later by ExpirationUnixUTC, or surfaces as a
// not-found contract on providers that never need a timestamp.
func NewOptionCodeComponents(code OptionCode) (*OptionCodeComponents, error) {
	s := string(code)
	if !optionCodeRegex.MatchString(s) {
		return nil, &InvalidFormatError{Value: s, Pattern: OptionCodePattern}
	}

	year, _ := strconv.Atoi(s[0:2])
	month, _ := strconv.Atoi(s[2:4])
	day, _ := strconv.Atoi(s[4:6])

	optionType := Call
	if s[6] == 'p' {
		optionType = Put
	}

	strikeRaw := s[7:15]
	strikeThousandths, _ := strconv.Atoi(strikeRaw)

	return &OptionCodeComponents{
		Year:       2000 + year, // codes only address the 2000s
		Month:      month,
		Day:        day,
		OptionType: optionType,
		Strike:     float64(strikeThousandths) / 1000,
		StrikeRaw:  strikeRaw,
	}, nil
}

// ExpirationUnixUTC returns midnight UTC of the expiration date in Unix
// seconds. Impossible calendar dates that slipped through decoding fail here.
func (c *OptionCodeComponents) ExpirationUnixUTC() (int64, error) {
	t := time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != c.Year || t.Month() != time.Month(c.Month) || t.Day() != c.Day {
		return 0, &CalendarError{Year: c.Year, Month: c.Month, Day: c.Day}
	}

	return t.Unix(), nil
}

// Description renders a human-readable form, e.g. "AMD Dec 17 2027 $370.00 Call".
func (c *OptionCodeComponents) Description(underlying string) string {
	expiration := time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC).Format("Jan 2 2006")

	optionType := "Call"
	if c.OptionType == Put {
		optionType = "Put"
	}

	return fmt.Sprintf("%s %s $%.2f %s", strings.ToUpper(underlying), expiration, c.Strike, optionType)
}
