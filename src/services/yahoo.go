package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/utils"
)

var yahooHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept": "application/json,*/*;q=0.8",
}

// YahooProvider resolves contracts against the timestamp-keyed option-chain
// payload served by query1.finance.yahoo.com. Contracts carry an explicit
// contractSymbol field, so matching is an exact case-insensitive comparison.
type YahooProvider struct {
	BaseURL string
	Timeout time.Duration
}

func NewYahooProvider(cfg *config.Config) *YahooProvider {
	return &YahooProvider{
		BaseURL: cfg.Yahoo.BaseURL,
		Timeout: cfg.HTTPTimeout(),
	}
}

func (p *YahooProvider) Name() string {
	return "query1.finance.yahoo.com"
}

// DefaultParams converts the decoded expiration date into the Unix timestamp
// Yahoo keys its chains by. Calendar garbage in the code dies here; on
// providers without a timestamp key it would surface as not-found instead.
func (p *YahooProvider) DefaultParams(c *models.OptionCodeComponents) (map[string]string, error) {
	ts, err := c.ExpirationUnixUTC()
	if err != nil {
		return nil, err
	}

	return map[string]string{"date": strconv.FormatInt(ts, 10)}, nil
}

func (p *YahooProvider) FetchChain(underlying string, params map[string]string) (models.ChainPayload, error) {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}

	endpoint := fmt.Sprintf("%s/v7/finance/options/%s", p.BaseURL, url.PathEscape(strings.ToUpper(underlying)))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := utils.Get(endpoint, yahooHeaders, p.Timeout)
	if err != nil {
		return nil, fmt.Errorf("YahooProvider.FetchChain: failed to fetch option chain: %w", err)
	}

	var payload models.ChainPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("YahooProvider.FetchChain: failed to decode option chain: %w", err)
	}

	return payload, nil
}

// result returns optionChain.result[0], or nothing when the shape drifted.
func (p *YahooProvider) result(payload models.ChainPayload) map[string]any {
	chain := models.MapField(payload, "optionChain")
	results := models.ListField(chain, "result")
	if len(results) == 0 {
		return nil
	}

	r, _ := results[0].(map[string]any)
	return r
}

func (p *YahooProvider) FindContract(payload models.ChainPayload, _ models.OptionCode, symbol models.OptionSymbol) (*models.OptionQuote, bool) {
	result := p.result(payload)

	options := models.ListField(result, "options")
	if len(options) == 0 {
		return nil, false
	}

	opt, ok := options[0].(map[string]any)
	if !ok {
		return nil, false
	}

	want := strings.ToLower(string(symbol))

	sides := []struct {
		key        string
		optionType models.OptionType
	}{
		{"calls", models.Call},
		{"puts", models.Put},
	}

	for _, side := range sides {
		for _, c := range models.ListField(opt, side.key) {
			contract, ok := c.(map[string]any)
			if !ok {
				continue
			}

			cs, _ := contract["contractSymbol"].(string)
			if cs == "" || strings.ToLower(cs) != want {
				continue
			}

			q := normalizeContractFields(contract, side.optionType, p.Name())
			// Yahoo expirations are Unix seconds; render the ISO date
			if exp, ok := contract["expiration"].(float64); ok {
				q.Expiration = time.Unix(int64(exp), 0).UTC().Format("2006-01-02")
			}

			return q, true
		}
	}

	return nil, false
}

func (p *YahooProvider) Expirations(payload models.ChainPayload) []string {
	result := p.result(payload)

	var out []string
	seen := map[string]bool{}

	for _, v := range models.ListField(result, "expirationDates") {
		s := stringify(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	return out
}

func (p *YahooProvider) ExpirationParamNames() []string {
	return []string{"date"}
}
