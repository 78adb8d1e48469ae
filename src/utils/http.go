package utils

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Get issues one blocking GET with the given headers and returns the raw body.
// There is no retry and no backoff; the timeout is the only ceiling.
func Get(url string, headers map[string]string, timeout time.Duration) ([]byte, error) {
	client := http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("Get: failed to create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Get: failed to fetch %s: %w", url, err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("Get: failed to read response body: %w", err)
	}

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("Get: %s returned %s", url, res.Status)
	}

	return body, nil
}
