package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"kartlap/internal/config"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// HTTPFetcher downloads heat pages with plain GET requests, paced by a
// shared rate limiter.
type HTTPFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client gets one with
// cfg.Timeout.
func NewHTTPFetcher(cfg config.ScraperConfig, client *http.Client, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    client,
		limiter:   newLimiter(cfg.RequestsPerSecond),
		logger:    logger.With(slog.String("component", "http_fetcher")),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error) {
	if err := checkRequest(track, sessionID); err != nil {
		return nil, err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	target := HeatURL(f.baseURL, track, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("build request", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("fetch "+target, err).WithContext("url", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("fetch %s: unexpected status %d", target, resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	rows, err := RowsFromHTML(resp.Body)
	if err != nil {
		return nil, err
	}

	f.logger.DebugContext(ctx, "Heat page fetched",
		slog.String("url", target),
		slog.Int("rows", len(rows)),
		slog.Duration("elapsed", time.Since(start)))
	return rows, nil
}
