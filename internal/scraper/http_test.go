package scraper

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartlap/internal/config"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

func testScraperConfig(baseURL string) config.ScraperConfig {
	return config.ScraperConfig{
		BaseURL:   baseURL,
		Mode:      config.ScraperModeHTTP,
		Timeout:   5 * time.Second,
		UserAgent: "kartlap-test",
	}
}

func newTestFetcher(baseURL string) *HTTPFetcher {
	return NewHTTPFetcher(testScraperConfig(baseURL), nil, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestHTTPFetcherFetch(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, heatPage)
	}))
	defer srv.Close()

	rows, err := newTestFetcher(srv.URL).Fetch(context.Background(), domain.TrackPremium, "83557")
	require.NoError(t, err)

	assert.Equal(t, "/tracks/premium/heats/83557", gotPath)
	assert.Equal(t, "kartlap-test", gotAgent)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Driver", "Ann", "Bob"}, rows[0])
}

func TestHTTPFetcherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Fetch(context.Background(), domain.TrackNarvskaya, "1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}

func TestHTTPFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(url).Fetch(context.Background(), domain.TrackNarvskaya, "1")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNetwork))
}

func TestHTTPFetcherRejectsBadInput(t *testing.T) {
	f := newTestFetcher("http://127.0.0.1:1")

	_, err := f.Fetch(context.Background(), domain.Track("monza"), "1")
	assert.ErrorIs(t, err, domain.ErrUnknownTrack)

	_, err = f.Fetch(context.Background(), domain.TrackDrive, "../etc")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}

func TestHTTPFetcherCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, heatPage)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher(srv.URL).Fetch(ctx, domain.TrackDrive, "1")
	assert.Error(t, err)
}
