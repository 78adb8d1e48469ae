package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/utils"
)

// nasdaqHeaders mimic a browser session; api.nasdaq.com stalls bare clients.
var nasdaqHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept":          "application/json,text/html;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.nasdaq.com/",
	"Connection":      "close",
}

var nasdaqChainURLRegex = regexp.MustCompile(`/market-activity/stocks/([a-z0-9.-]+)/option-chain/`)

// ParseSymbolFromNasdaqURL extracts the underlying ticker from a Nasdaq
// option-chain page URL.
func ParseSymbolFromNasdaqURL(rawURL string) (string, error) {
	m := nasdaqChainURLRegex.FindStringSubmatch(strings.ToLower(rawURL))
	if m == nil {
		return "", &models.InvalidInputError{Msg: fmt.Sprintf("could not extract an underlying symbol from %q", rawURL)}
	}

	return m[1], nil
}

// NasdaqProvider resolves contracts against the flat-row option-chain payload
// served by api.nasdaq.com. Rows carry nested call/put records without a
// dedicated exact-symbol field, so matching is a substring scan.
type NasdaqProvider struct {
	BaseURL          string
	Timeout          time.Duration
	SymbolKeys       []string
	ExpirationKeys   []string
	ExpirationParams []string
}

func NewNasdaqProvider(cfg *config.Config) *NasdaqProvider {
	return &NasdaqProvider{
		BaseURL:          cfg.Nasdaq.BaseURL,
		Timeout:          cfg.HTTPTimeout(),
		SymbolKeys:       cfg.Nasdaq.SymbolKeys,
		ExpirationKeys:   cfg.Nasdaq.ExpirationKeys,
		ExpirationParams: cfg.Nasdaq.ExpirationParams,
	}
}

func (p *NasdaqProvider) Name() string {
	return "api.nasdaq.com"
}

func (p *NasdaqProvider) DefaultParams(_ *models.OptionCodeComponents) (map[string]string, error) {
	return map[string]string{}, nil
}

func (p *NasdaqProvider) FetchChain(underlying string, params map[string]string) (models.ChainPayload, error) {
	q := url.Values{}
	q.Set("assetclass", "stocks")
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}

	endpoint := fmt.Sprintf("%s/api/quote/%s/option-chain?%s", p.BaseURL, url.PathEscape(underlying), q.Encode())

	body, err := utils.Get(endpoint, nasdaqHeaders, p.Timeout)
	if err != nil {
		return nil, fmt.Errorf("NasdaqProvider.FetchChain: failed to fetch option chain: %w", err)
	}

	var payload models.ChainPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("NasdaqProvider.FetchChain: failed to decode option chain: %w", err)
	}

	return payload, nil
}

// rows returns data.table.rows, or nothing when the shape drifted.
func (p *NasdaqProvider) rows(payload models.ChainPayload) []any {
	data := models.MapField(payload, "data")
	table := models.MapField(data, "table")
	return models.ListField(table, "rows")
}

func (p *NasdaqProvider) FindContract(payload models.ChainPayload, code models.OptionCode, _ models.OptionSymbol) (*models.OptionQuote, bool) {
	for _, r := range p.rows(payload) {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}

		if call := models.MapField(row, "call"); matchContractFields(call, code, p.SymbolKeys) {
			return normalizeContractFields(call, models.Call, p.Name()), true
		}

		if put := models.MapField(row, "put"); matchContractFields(put, code, p.SymbolKeys) {
			return normalizeContractFields(put, models.Put, p.Name()), true
		}

		if matchContractFields(row, code, p.SymbolKeys) {
			return normalizeContractFields(row, models.Unknown, p.Name()), true
		}
	}

	return nil, false
}

// Expirations collects candidate expirations from every configured payload
// location. A location may hold a plain list or a {rows: [...]} wrapper.
func (p *NasdaqProvider) Expirations(payload models.ChainPayload) []string {
	data := models.MapField(payload, "data")

	var out []string
	seen := map[string]bool{}

	appendAll := func(items []any) {
		for _, it := range items {
			s := stringify(it)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, key := range p.ExpirationKeys {
		if data == nil {
			break
		}

		switch v := data[key].(type) {
		case []any:
			appendAll(v)
		case map[string]any:
			appendAll(models.ListField(v, "rows"))
		}
	}

	return out
}

func (p *NasdaqProvider) ExpirationParamNames() []string {
	return p.ExpirationParams
}
