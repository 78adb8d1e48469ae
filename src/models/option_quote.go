package models

// OptionQuote is the normalized result of a contract lookup. Price fields are
// kept as provider-presented strings: Nasdaq serves display strings while
// Yahoo serves numbers, and the tools only ever render or export them.
type OptionQuote struct {
	Underlying        string         `json:"underlying"`
	OptionCode        OptionCode     `json:"option_code"`
	OptionSymbol      string         `json:"option_symbol,omitempty"`
	OptionType        OptionType     `json:"type"`
	Expiration        string         `json:"expiration,omitempty"`
	Strike            string         `json:"strike,omitempty"`
	Bid               string         `json:"bid,omitempty"`
	Ask               string         `json:"ask,omitempty"`
	Last              string         `json:"last,omitempty"`
	Volume            string         `json:"volume,omitempty"`
	OpenInterest      string         `json:"open_interest,omitempty"`
	ImpliedVolatility string         `json:"iv,omitempty"`
	QueriedExpiration string         `json:"queried_expiration,omitempty"`
	QueriedParam      string         `json:"queried_param,omitempty"`
	Source            string         `json:"source,omitempty"`
	Raw               map[string]any `json:"_raw,omitempty"`
}

// OptionQuoteCSVRow flattens an OptionQuote for csv export. The opaque raw
// contract record is dropped; csv is a display format here.
type OptionQuoteCSVRow struct {
	Underlying        string `csv:"underlying"`
	OptionCode        string `csv:"option_code"`
	OptionSymbol      string `csv:"option_symbol"`
	OptionType        string `csv:"type"`
	Expiration        string `csv:"expiration"`
	Strike            string `csv:"strike"`
	Bid               string `csv:"bid"`
	Ask               string `csv:"ask"`
	Last              string `csv:"last"`
	Volume            string `csv:"volume"`
	OpenInterest      string `csv:"open_interest"`
	ImpliedVolatility string `csv:"iv"`
	QueriedExpiration string `csv:"queried_expiration"`
	QueriedParam      string `csv:"queried_param"`
	Source            string `csv:"source"`
}

func (q *OptionQuote) ToCSVRow() OptionQuoteCSVRow {
	return OptionQuoteCSVRow{
		Underlying:        q.Underlying,
		OptionCode:        string(q.OptionCode),
		OptionSymbol:      q.OptionSymbol,
		OptionType:        string(q.OptionType),
		Expiration:        q.Expiration,
		Strike:            q.Strike,
		Bid:               q.Bid,
		Ask:               q.Ask,
		Last:              q.Last,
		Volume:            q.Volume,
		OpenInterest:      q.OpenInterest,
		ImpliedVolatility: q.ImpliedVolatility,
		QueriedExpiration: q.QueriedExpiration,
		QueriedParam:      q.QueriedParam,
		Source:            q.Source,
	}
}
