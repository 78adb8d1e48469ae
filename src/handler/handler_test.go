package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuzmin/marketdesk/src/config"
)

const reviewsFeedPage = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:im="http://itunes.apple.com/rss">
  <entry>
    <id>20000001</id>
    <title>Solid</title>
    <content type="text">Does what it says.</content>
    <im:rating>4</im:rating>
    <im:version>1.0</im:version>
    <author><name>carol</name></author>
  </entry>
</feed>`

const emptyReviewsFeedPage = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:im="http://itunes.apple.com/rss"></feed>`

func newTestRouter(upstream string) *mux.Router {
	cfg := config.Default()
	cfg.Nasdaq.BaseURL = upstream
	cfg.Yahoo.BaseURL = upstream
	cfg.AppStore.BaseURL = upstream

	router := mux.NewRouter()
	New(cfg).RegisterRoutes(router)
	return router
}

func TestOptionQuoteEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": {
				"table": {
					"rows": [
						{"call": {"symbol": "AMD271217C00370000", "ask": "3.70", "bid": "3.60"}}
					]
				}
			}
		}`)
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)

	t.Run("resolves a quote as json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/option-quote?symbol=amd&code=271217c00370000", nil)

		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "AMD271217C00370000", body["option_symbol"])
		assert.Equal(t, "3.70", body["ask"])
	})

	t.Run("accepts a marketplace url via post form", func(t *testing.T) {
		form := url.Values{
			"url": {"https://www.nasdaq.com/market-activity/stocks/amd/option-chain/call-put-options/amd---271217c00370000"},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/option-quote", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "amd", body["underlying"])
		assert.Equal(t, "271217c00370000", body["option_code"])
	})

	t.Run("csv format downloads an attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/option-quote?symbol=amd&code=271217c00370000&format=csv", nil)

		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "amd_271217c00370000_quote.csv")
		assert.Contains(t, rec.Body.String(), "AMD271217C00370000")
	})

	t.Run("malformed code is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/option-quote?symbol=amd&code=abc123", nil)

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "abc123")
	})

	t.Run("missing symbol is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/option-quote?code=271217c00370000", nil)

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown provider is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/option-quote?provider=bogus&symbol=amd&code=271217c00370000", nil)

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bogus")
	})
}

func TestOptionQuoteNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": {
				"table": {"rows": []},
				"expirations": ["2027-12-17"]
			}
		}`)
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/option-quote?symbol=amd&code=271217c00370000", nil)

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 expirations")
}

func TestReviewsEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "page=1/") {
			fmt.Fprint(w, reviewsFeedPage)
			return
		}
		fmt.Fprint(w, emptyReviewsFeedPage)
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)

	t.Run("collects reviews as json with a summary", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews?url=https://apps.apple.com/us/app/some-app/id123456789", nil)

		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "123456789", resp.AppID)
		assert.Equal(t, 1, resp.Count)
		require.NotNil(t, resp.Summary)
		assert.Equal(t, 1, resp.Summary.Count)
		assert.InDelta(t, 4.0, resp.Summary.Mean, 1e-9)
	})

	t.Run("csv format downloads an attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews?url=https://apps.apple.com/us/app/some-app/id123456789&format=csv", nil)

		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "appstore_reviews_123456789_")
		assert.Contains(t, rec.Body.String(), "carol")
	})

	t.Run("url without an app id is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews?url=https://apps.apple.com/us/app/some-app", nil)

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReviewsEndpointEmptyFeed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyReviewsFeedPage)
	}))
	defer upstream.Close()

	router := newTestRouter(upstream.URL)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reviews?url=https://apps.apple.com/us/app/some-app/id123456789", nil)

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No reviews collected.")
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter("http://unused")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/option-quote")
	assert.Contains(t, rec.Body.String(), "/api/reviews")
}
