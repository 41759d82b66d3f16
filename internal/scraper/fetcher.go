package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"kartlap/internal/config"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// Fetcher retrieves the raw rows of one heat page.
type Fetcher interface {
	Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error)
}

// HeatURL builds the page address of a heat.
func HeatURL(baseURL string, track domain.Track, sessionID string) string {
	return fmt.Sprintf("%s/tracks/%s/heats/%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(string(track)), url.PathEscape(sessionID))
}

// NewFetcher returns the fetcher selected by cfg.Mode.
func NewFetcher(cfg config.ScraperConfig, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Mode {
	case config.ScraperModeChrome:
		return NewChromeFetcher(cfg, logger), nil
	case config.ScraperModeHTTP:
		return NewHTTPFetcher(cfg, nil, logger), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown scraper mode %q", cfg.Mode), nil)
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func checkRequest(track domain.Track, sessionID string) error {
	if !track.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTrack, track)
	}
	return domain.ValidateSessionID(sessionID)
}
