package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akuzmin/marketdesk/src/models"
)

// QuoteProvider is one option-chain source. Fetching and matching are both
// provider-specific: payload shapes are incompatible, and so is the way a
// contract is identified inside them. The resolver only sees this interface,
// so new provider shapes can be added without touching the search logic.
type QuoteProvider interface {
	Name() string

	// FetchChain issues one blocking chain request for the underlying with
	// free-form query parameters.
	FetchChain(underlying string, params map[string]string) (models.ChainPayload, error)

	// DefaultParams builds the parameters of the initial request. Providers
	// keyed by an expiration timestamp perform the calendar conversion here.
	DefaultParams(components *models.OptionCodeComponents) (map[string]string, error)

	// FindContract searches one payload for the contract.
	FindContract(payload models.ChainPayload, code models.OptionCode, symbol models.OptionSymbol) (*models.OptionQuote, bool)

	// Expirations extracts candidate expiration identifiers from a payload
	// that missed, for the fallback sweep. Duplicates removed, first-seen
	// order preserved.
	Expirations(payload models.ChainPayload) []string

	// ExpirationParamNames lists the query-parameter spellings to try for
	// each candidate expiration, in order.
	ExpirationParamNames() []string
}

// quoteFieldMap maps provider field spellings onto normalized quote fields.
// Order matters: the first spelling present in the record wins.
var quoteFieldMap = []struct {
	src string
	dst string
}{
	{"optionSymbol", "option_symbol"},
	{"symbol", "option_symbol"},
	{"contractSymbol", "option_symbol"},
	{"displaySymbol", "option_symbol"},
	{"bid", "bid"},
	{"ask", "ask"},
	{"last", "last"},
	{"lastPrice", "last"},
	{"lastSalePrice", "last"},
	{"volume", "volume"},
	{"openInterest", "open_interest"},
	{"impliedVolatility", "iv"},
	{"strikePrice", "strike"},
	{"strike", "strike"},
	{"expirationDate", "expiration"},
	{"expiryDate", "expiration"},
	{"expiration", "expiration"},
}

// normalizeContractFields lifts a raw contract record into an OptionQuote,
// keeping the record itself as an opaque passthrough for auditability.
func normalizeContractFields(contract map[string]any, optionType models.OptionType, source string) *models.OptionQuote {
	q := &models.OptionQuote{
		OptionType: optionType,
		Source:     source,
		Raw:        contract,
	}

	for _, m := range quoteFieldMap {
		v, ok := contract[m.src]
		if !ok || v == nil {
			continue
		}

		s := stringify(v)
		if s == "" {
			continue
		}

		setQuoteField(q, m.dst, s)
	}

	return q
}

func setQuoteField(q *models.OptionQuote, dst, value string) {
	switch dst {
	case "option_symbol":
		if q.OptionSymbol == "" {
			q.OptionSymbol = value
		}
	case "bid":
		if q.Bid == "" {
			q.Bid = value
		}
	case "ask":
		if q.Ask == "" {
			q.Ask = value
		}
	case "last":
		if q.Last == "" {
			q.Last = value
		}
	case "volume":
		if q.Volume == "" {
			q.Volume = value
		}
	case "open_interest":
		if q.OpenInterest == "" {
			q.OpenInterest = value
		}
	case "iv":
		if q.ImpliedVolatility == "" {
			q.ImpliedVolatility = value
		}
	case "strike":
		if q.Strike == "" {
			q.Strike = value
		}
	case "expiration":
		if q.Expiration == "" {
			q.Expiration = value
		}
	}
}

// stringify renders a decoded JSON scalar the way it would print: numbers
// without a trailing ".0", everything else via fmt.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// matchContractFields reports whether the code appears in the contract
// record. Symbol-like keys are checked first in the configured order, then
// every remaining string field; matching is a case-insensitive substring
// test so presentation wrappers around the code still hit.
func matchContractFields(contract map[string]any, code models.OptionCode, symbolKeys []string) bool {
	if contract == nil {
		return false
	}

	needle := strings.ToLower(string(code))

	for _, k := range symbolKeys {
		if v, ok := contract[k].(string); ok && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}

	for _, v := range contract {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}

	return false
}
