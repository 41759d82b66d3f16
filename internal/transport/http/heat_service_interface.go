package http

import (
	"context"

	"kartlap/internal/exporter"
	"kartlap/internal/services"
	"kartlap/pkg/contracts/domain"
)

// HeatServiceInterface is the part of services.HeatService the handlers use.
type HeatServiceInterface interface {
	Import(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error)
	ImportBatch(ctx context.Context, track domain.Track, ids []string, workers int) ([]services.BatchResult, error)
	Get(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error)
	FullResults(ctx context.Context, track domain.Track, sessionID string) ([][]string, error)
	List(ctx context.Context, track domain.Track) ([]domain.HeatRef, error)
	Delete(ctx context.Context, track domain.Track, sessionID string) error
	Export(ctx context.Context, track domain.Track, sessionID string, format exporter.Format) (*services.ExportResult, error)
}
