// Package fetch retrieves the published sheet feed and maintains the
// in-memory dataset snapshot. A Fetcher performs one HTTP retrieval; a
// Refresher runs fetch cycles on an interval and publishes immutable
// snapshots for the rest of the application to read.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/seongho-jang/munhakdex/internal/catalog"
	"github.com/seongho-jang/munhakdex/internal/csv"
)

// ErrEmptySheet reports a feed body without data rows (header only, or
// nothing at all).
var ErrEmptySheet = errors.New("sheet has no data rows")

// StatusError reports a non-2xx feed response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed returned HTTP %d", e.Code)
}

// maxBodySize caps how much of a feed response is read. The index is a few
// thousand short rows; anything near this limit is a broken feed.
const maxBodySize = 16 << 20

// Fetcher retrieves and parses the feed once per call.
type Fetcher struct {
	feedURL string
	client  *http.Client
}

// NewFetcher creates a fetcher for the given published-CSV URL. The timeout
// bounds each whole retrieval, so a hung feed cannot stall a refresh cycle
// forever.
func NewFetcher(feedURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs one retrieval and returns the parsed dataset.
//
// Every request carries a fresh cache-busting query parameter so
// intermediary caches cannot serve a stale sheet. A non-2xx status or a body
// with fewer than two non-empty lines is an error; per-row anomalies are
// not (the parser degrades instead).
func (f *Fetcher) Fetch(ctx context.Context) (catalog.Dataset, error) {
	reqURL, err := withCacheBuster(f.feedURL)
	if err != nil {
		return nil, fmt.Errorf("feed url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	text := string(body)
	if csv.LineCount(text) < 2 {
		return nil, ErrEmptySheet
	}

	_, records := csv.ParseDocument(text)
	ds := make(catalog.Dataset, len(records))
	copy(ds, records)
	return ds, nil
}

// withCacheBuster appends a unique cb parameter to the feed URL.
func withCacheBuster(feedURL string) (string, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("cb", uuid.NewString())
	u.RawQuery = q.Encode()
	return u.String(), nil
}
