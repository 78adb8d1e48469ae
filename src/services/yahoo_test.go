package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
)

func newTestYahooProvider(baseURL string) *YahooProvider {
	cfg := config.Default()
	cfg.Yahoo.BaseURL = baseURL
	return NewYahooProvider(cfg)
}

func TestYahooResolve(t *testing.T) {
	expiration := time.Date(2027, 12, 17, 0, 0, 0, 0, time.UTC).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/options/AMD", r.URL.Path)
		assert.Equal(t, strconv.FormatInt(expiration, 10), r.URL.Query().Get("date"))

		fmt.Fprintf(w, `{
			"optionChain": {
				"result": [{
					"expirationDates": [%d],
					"options": [{
						"calls": [
							{"contractSymbol": "AMD271217C00360000", "strike": 360.0},
							{"contractSymbol": "amd271217c00370000", "strike": 370.0, "bid": 3.6, "ask": 3.7, "lastPrice": 3.65, "expiration": %d, "openInterest": 1200, "impliedVolatility": 0.42}
						],
						"puts": [
							{"contractSymbol": "AMD271217P00370000", "strike": 370.0}
						]
					}]
				}]
			}
		}`, expiration, expiration)
	}))
	defer srv.Close()

	p := newTestYahooProvider(srv.URL)

	quote, err := NewResolver(p).GetOptionQuoteByCode(context.Background(), "amd", "271217c00370000", nil)
	require.NoError(t, err)

	assert.Equal(t, models.Call, quote.OptionType)
	assert.Equal(t, "amd271217c00370000", quote.OptionSymbol)
	assert.Equal(t, "370", quote.Strike)
	assert.Equal(t, "3.6", quote.Bid)
	assert.Equal(t, "3.7", quote.Ask)
	assert.Equal(t, "3.65", quote.Last)
	assert.Equal(t, "1200", quote.OpenInterest)
	assert.Equal(t, "2027-12-17", quote.Expiration)
	assert.Equal(t, "query1.finance.yahoo.com", quote.Source)
}

func TestYahooFindContract(t *testing.T) {
	p := newTestYahooProvider("http://unused")
	symbol := models.OptionSymbol("AMD271217P00370000")

	t.Run("exact symbol match classifies side by list", func(t *testing.T) {
		payload := models.ChainPayload{
			"optionChain": map[string]any{
				"result": []any{
					map[string]any{
						"options": []any{
							map[string]any{
								"calls": []any{},
								"puts": []any{
									map[string]any{"contractSymbol": "AMD271217P00370000", "bid": 1.1},
								},
							},
						},
					},
				},
			},
		}

		quote, found := p.FindContract(payload, "", symbol)
		require.True(t, found)
		assert.Equal(t, models.Put, quote.OptionType)
		assert.Equal(t, "1.1", quote.Bid)
	})

	t.Run("substring is not enough for an exact-symbol provider", func(t *testing.T) {
		payload := models.ChainPayload{
			"optionChain": map[string]any{
				"result": []any{
					map[string]any{
						"options": []any{
							map[string]any{
								"puts": []any{
									map[string]any{"contractSymbol": "XAMD271217P00370000X"},
								},
							},
						},
					},
				},
			},
		}

		_, found := p.FindContract(payload, "", symbol)
		assert.False(t, found)
	})

	t.Run("empty result reads as no match", func(t *testing.T) {
		_, found := p.FindContract(models.ChainPayload{}, "", symbol)
		assert.False(t, found)
	})
}

func TestYahooExpirations(t *testing.T) {
	p := newTestYahooProvider("http://unused")

	payload := models.ChainPayload{
		"optionChain": map[string]any{
			"result": []any{
				map[string]any{
					"expirationDates": []any{1829347200.0, 1829952000.0, 1829347200.0},
				},
			},
		},
	}

	assert.Equal(t, []string{"1829347200", "1829952000"}, p.Expirations(payload))
	assert.Equal(t, []string{"date"}, p.ExpirationParamNames())
}

func TestYahooCalendarError(t *testing.T) {
	p := newTestYahooProvider("http://unused")

	// structurally valid, but February 30th does not exist
	_, err := NewResolver(p).GetOptionQuoteByCode(context.Background(), "amd", "270230c00370000", nil)
	require.Error(t, err)

	var calendarErr *models.CalendarError
	assert.True(t, errors.As(err, &calendarErr))
}
