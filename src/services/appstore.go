package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"go.opentelemetry.io/otel"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/utils"
)

var appStoreHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; MarketdeskBot/1.0)",
	"Accept":     "application/xml,text/xml,application/atom+xml,*/*",
}

var appIDRegex = regexp.MustCompile(`id(\d+)`)

// ExtractAppID pulls the numeric application id out of an App Store URL.
func ExtractAppID(rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", &models.InvalidInputError{Msg: "URL is empty"}
	}

	m := appIDRegex.FindStringSubmatch(rawURL)
	if m == nil {
		return "", &models.InvalidInputError{Msg: "could not extract app_id: expected 'id123456789' in the URL"}
	}

	return m[1], nil
}

type reviewFeed struct {
	Entries []reviewEntry `xml:"entry"`
}

type reviewEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
	// Entries carry two content elements (text and html); the first one is
	// the plain-text body.
	Contents []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:",chardata"`
	} `xml:"content"`
	Rating    string `xml:"http://itunes.apple.com/rss rating"`
	Version   string `xml:"http://itunes.apple.com/rss version"`
	VoteSum   string `xml:"http://itunes.apple.com/rss voteSum"`
	VoteCount string `xml:"http://itunes.apple.com/rss voteCount"`
	Author    struct {
		Name string `xml:"name"`
		URI  string `xml:"uri"`
	} `xml:"author"`
}

func (e *reviewEntry) body() string {
	if len(e.Contents) == 0 {
		return ""
	}

	return strings.TrimSpace(e.Contents[0].Value)
}

// ParseReviews decodes one feed page into review rows. The first entry is
// frequently the app's own metadata rather than a review; entries with
// neither a rating nor a body are skipped.
func ParseReviews(xmlText []byte, appID string, storefront string) ([]models.AppReview, error) {
	var feed reviewFeed
	if err := xml.Unmarshal(xmlText, &feed); err != nil {
		return nil, fmt.Errorf("ParseReviews: failed to parse feed: %w", err)
	}

	var rows []models.AppReview

	for _, e := range feed.Entries {
		rating := strings.TrimSpace(e.Rating)
		body := e.body()

		if rating == "" && body == "" {
			continue
		}

		rows = append(rows, models.AppReview{
			AppID:      appID,
			Storefront: storefront,
			ReviewID:   strings.TrimSpace(e.ID),
			AuthorName: strings.TrimSpace(e.Author.Name),
			AuthorURI:  strings.TrimSpace(e.Author.URI),
			Title:      strings.TrimSpace(e.Title),
			Body:       body,
			Rating:     rating,
			Version:    strings.TrimSpace(e.Version),
			UpdatedAt:  strings.TrimSpace(e.Updated),
			VoteSum:    strings.TrimSpace(e.VoteSum),
			VoteCount:  strings.TrimSpace(e.VoteCount),
		})
	}

	return rows, nil
}

// AppStoreClient reads the public customer-reviews syndication feed. No keys,
// no login.
type AppStoreClient struct {
	BaseURL    string
	Storefront string
	Timeout    time.Duration

	// PageLimit caps pagination as a safety guard.
	PageLimit int
}

func NewAppStoreClient(cfg *config.Config) *AppStoreClient {
	return &AppStoreClient{
		BaseURL:    cfg.AppStore.BaseURL,
		Storefront: cfg.AppStore.Storefront,
		Timeout:    cfg.HTTPTimeout(),
		PageLimit:  cfg.AppStore.PageLimit,
	}
}

// FetchReviewFeed fetches one 1-based feed page as raw XML.
func (c *AppStoreClient) FetchReviewFeed(appID string, page int) ([]byte, error) {
	feedURL := fmt.Sprintf("%s/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/xml",
		c.BaseURL, c.Storefront, page, appID)

	body, err := utils.Get(feedURL, appStoreHeaders, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("AppStoreClient.FetchReviewFeed: failed to fetch page %d: %w", page, err)
	}

	return body, nil
}

// CollectReviews pages through the feed until the requested count is met, a
// page yields no parseable reviews, or the page cap is reached. Pages are
// fetched sequentially; a fetch failure aborts the collection.
func (c *AppStoreClient) CollectReviews(ctx context.Context, appID string, maxReviews int, logFn func(string)) ([]models.AppReview, error) {
	tracer := otel.Tracer("AppStoreClient")
	_, span := tracer.Start(ctx, "CollectReviews")
	defer span.End()

	var collected []models.AppReview
	page := 1

	for len(collected) < maxReviews {
		xmlText, err := c.FetchReviewFeed(appID, page)
		if err != nil {
			return nil, fmt.Errorf("AppStoreClient.CollectReviews: failed to fetch page %d: %w", page, err)
		}

		if logFn != nil {
			logFn(fmt.Sprintf("page %d fetched", page))
		}

		rows, err := ParseReviews(xmlText, appID, c.Storefront)
		if err != nil {
			return nil, fmt.Errorf("AppStoreClient.CollectReviews: failed to parse page %d: %w", page, err)
		}

		if len(rows) == 0 {
			if logFn != nil {
				logFn("No more reviews in feed; stopping.")
			}
			break
		}

		for _, r := range rows {
			if len(collected) >= maxReviews {
				break
			}
			collected = append(collected, r)
		}

		if logFn != nil {
			logFn(fmt.Sprintf("%d reviews collected", len(collected)))
		}

		page++
		if page > c.PageLimit {
			if logFn != nil {
				logFn(fmt.Sprintf("Reached page limit guard (%d); stopping.", c.PageLimit))
			}
			break
		}
	}

	return collected, nil
}

// RatingSummary aggregates the numeric ratings of a review set.
type RatingSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// SummarizeRatings computes rating statistics, skipping rows whose rating is
// missing or non-numeric.
func SummarizeRatings(rows []models.AppReview) (RatingSummary, error) {
	var ratings []float64
	for _, r := range rows {
		v, err := strconv.ParseFloat(r.Rating, 64)
		if err != nil {
			continue
		}
		ratings = append(ratings, v)
	}

	if len(ratings) == 0 {
		return RatingSummary{}, fmt.Errorf("SummarizeRatings: no numeric ratings found")
	}

	mean, err := stats.Mean(ratings)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("SummarizeRatings: failed to calculate mean: %v", err)
	}

	median, err := stats.Median(ratings)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("SummarizeRatings: failed to calculate median: %v", err)
	}

	sd, err := stats.StandardDeviation(ratings)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("SummarizeRatings: failed to calculate the standard deviation: %v", err)
	}

	return RatingSummary{
		Count:  len(ratings),
		Mean:   mean,
		Median: median,
		StdDev: sd,
	}, nil
}
