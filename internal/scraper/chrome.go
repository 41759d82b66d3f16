package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"kartlap/internal/config"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// ChromeFetcher renders heat pages in a headless Chrome and reads the
// resulting DOM. Each Fetch runs in its own browser tab.
type ChromeFetcher struct {
	baseURL     string
	userAgent   string
	headless    bool
	timeout     time.Duration
	waitTimeout time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewChromeFetcher creates a ChromeFetcher from cfg.
func NewChromeFetcher(cfg config.ScraperConfig, logger *slog.Logger) *ChromeFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeFetcher{
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		headless:    cfg.Headless,
		timeout:     cfg.Timeout,
		waitTimeout: cfg.WaitTimeout,
		limiter:     newLimiter(cfg.RequestsPerSecond),
		logger:      logger.With(slog.String("component", "chrome_fetcher")),
	}
}

// Fetch implements Fetcher.
func (f *ChromeFetcher) Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error) {
	if err := checkRequest(track, sessionID); err != nil {
		return nil, err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", f.headless))
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
		defer cancel()
	}

	target := HeatURL(f.baseURL, track, sessionID)
	start := time.Now()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		f.waitForTable(),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, apperrors.NewNetworkError("render "+target, err).WithContext("url", target)
	}

	rows, err := RowsFromHTML(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	f.logger.DebugContext(ctx, "Heat page rendered",
		slog.String("url", target),
		slog.Int("rows", len(rows)),
		slog.Duration("elapsed", time.Since(start)))
	return rows, nil
}

// waitForTable waits until the first table is in the DOM, bounded by the
// configured wait timeout.
func (f *ChromeFetcher) waitForTable() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if f.waitTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, f.waitTimeout)
			defer cancel()
		}
		return chromedp.WaitReady("table", chromedp.ByQuery).Do(ctx)
	})
}
