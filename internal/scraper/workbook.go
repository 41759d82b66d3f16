package scraper

import (
	"context"
	"log/slog"
	"path/filepath"

	"kartlap/internal/dataprocessing"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// WorkbookFetcher serves rows from a saved spreadsheet dump of a heat page
// instead of the timing site. Every request returns the same workbook.
type WorkbookFetcher struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewWorkbookFetcher reads sheet of the workbook at path. An empty sheet
// selects the active one.
func NewWorkbookFetcher(path, sheet string, logger *slog.Logger) *WorkbookFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookFetcher{
		path:   path,
		sheet:  sheet,
		logger: logger.With(slog.String("component", "workbook_fetcher")),
	}
}

// Fetch implements Fetcher.
func (f *WorkbookFetcher) Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error) {
	if err := checkRequest(track, sessionID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := dataprocessing.ReadWorkbookRows(f.path, f.sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("read workbook "+filepath.Base(f.path), err).
			WithContext("path", f.path)
	}

	f.logger.DebugContext(ctx, "Workbook rows loaded",
		slog.String("path", f.path),
		slog.String("session_id", sessionID),
		slog.Int("rows", len(rows)))
	return rows, nil
}
