package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"kartlap/internal/dataprocessing"
	apperrors "kartlap/internal/errors"
	"kartlap/internal/exporter"
	"kartlap/internal/infrastructure"
	"kartlap/pkg/contracts/domain"
	"kartlap/pkg/contracts/events"
)

// Fetcher retrieves the raw rows of a heat page.
type Fetcher interface {
	Fetch(ctx context.Context, track domain.Track, sessionID string) (domain.RawTable, error)
}

// HeatRepository persists heats.
type HeatRepository interface {
	Save(ctx context.Context, heat *domain.Heat) error
	Load(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error)
	List(ctx context.Context) ([]domain.HeatRef, error)
	Delete(ctx context.Context, track domain.Track, sessionID string) error
}

// EventBroadcaster pushes events to connected websocket clients.
type EventBroadcaster interface {
	Broadcast(messageType string, data interface{})
}

// HeatServiceDeps are the collaborators of a HeatService. Events, Metrics
// and Tracer are optional.
type HeatServiceDeps struct {
	Fetcher      Fetcher
	Repository   HeatRepository
	Events       EventBroadcaster
	Metrics      *infrastructure.HeatMetrics
	Tracer       trace.Tracer
	BatchWorkers int
	Logger       *slog.Logger
}

// HeatService imports, stores and exports heats.
type HeatService struct {
	fetcher Fetcher
	parser  *dataprocessing.HeatParser
	repo    HeatRepository
	events  EventBroadcaster
	metrics *infrastructure.HeatMetrics
	tracer  trace.Tracer
	workers int
	logger  *slog.Logger
}

// BatchResult is the outcome of one session of a batch import.
type BatchResult struct {
	SessionID string
	Heat      *domain.Heat
	Err       error
}

// ExportResult is a rendered heat file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewHeatService creates a new heat service
func NewHeatService(deps HeatServiceDeps) *HeatService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	workers := deps.BatchWorkers
	if workers < 1 {
		workers = 1
	}
	logger = logger.With(slog.String("component", "heat_service"))
	return &HeatService{
		fetcher: deps.Fetcher,
		parser:  dataprocessing.NewHeatParser(logger),
		repo:    deps.Repository,
		events:  deps.Events,
		metrics: deps.Metrics,
		tracer:  tracer,
		workers: workers,
		logger:  logger,
	}
}

// Import fetches one session page, reconstructs the heat and saves it.
func (s *HeatService) Import(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	ctx, span := s.tracer.Start(ctx, "heat.import", trace.WithAttributes(
		attribute.String("heat.track", string(track)),
		attribute.String("heat.session_id", sessionID),
	))
	defer span.End()

	start := time.Now()
	heat, err := s.importHeat(ctx, track, sessionID)
	elapsed := time.Since(start)

	laps := 0
	if heat != nil {
		laps = heat.LapCount()
	}
	s.metrics.RecordImport(ctx, string(track), laps, elapsed, err)

	logger := infrastructure.LoggerWithContext(ctx).With(
		slog.String("component", "heat_service"),
		slog.String("track", string(track)),
		slog.String("session_id", sessionID))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "Heat import failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed))
		s.broadcast(events.MessageTypeImportFailed, events.HeatEvent{
			Track:     string(track),
			SessionID: sessionID,
			Error:     err.Error(),
		})
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("heat.drivers", heat.DriverCount()),
		attribute.Int("heat.laps", laps))
	logger.InfoContext(ctx, "Heat imported",
		slog.Int("drivers", heat.DriverCount()),
		slog.Int("laps", laps),
		slog.Duration("elapsed", elapsed))
	s.broadcast(events.MessageTypeHeatImported, heatEvent(heat))
	return heat, nil
}

func (s *HeatService) importHeat(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	if err := checkRef(track, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.fetcher.Fetch(ctx, track, sessionID)
	if err != nil {
		return nil, err
	}

	heat := s.parser.Parse(ctx, sessionID, track, rows)
	if heat.DriverCount() == 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("heat %s/%s", track, sessionID), ErrNoHeatData)
	}

	if err := s.repo.Save(ctx, heat); err != nil {
		return nil, err
	}
	return heat, nil
}

// ImportBatch imports every session in ids with at most workers imports in
// flight. A workers value below one uses the configured default. Results
// are returned in the order of ids.
func (s *HeatService) ImportBatch(ctx context.Context, track domain.Track, ids []string, workers int) ([]BatchResult, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}
	if workers < 1 {
		workers = s.workers
	}

	ctx, span := s.tracer.Start(ctx, "heat.import_batch", trace.WithAttributes(
		attribute.String("heat.track", string(track)),
		attribute.Int("batch.size", len(ids)),
		attribute.Int("batch.workers", workers),
	))
	defer span.End()

	results := make([]BatchResult, len(ids))
	var (
		mu     sync.Mutex
		done   int
		failed int
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			heat, err := s.Import(ctx, track, id)
			results[i] = BatchResult{SessionID: id, Heat: heat, Err: err}

			mu.Lock()
			done++
			if err != nil {
				failed++
			}
			progress := events.BatchProgress{
				Track:     string(track),
				SessionID: id,
				Done:      done,
				Failed:    failed,
				Total:     len(ids),
			}
			mu.Unlock()

			s.broadcast(events.MessageTypeBatchProgress, progress)
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(attribute.Int("batch.failed", failed))
	s.logger.InfoContext(ctx, "Batch import finished",
		slog.String("track", string(track)),
		slog.Int("total", len(ids)),
		slog.Int("failed", failed))
	return results, nil
}

// Get loads a stored heat.
func (s *HeatService) Get(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	if err := checkRef(track, sessionID); err != nil {
		return nil, err
	}
	return s.repo.Load(ctx, track, sessionID)
}

// FullResults returns the driver row, the kart row and the lap table of a
// stored heat as one grid.
func (s *HeatService) FullResults(ctx context.Context, track domain.Track, sessionID string) ([][]string, error) {
	heat, err := s.Get(ctx, track, sessionID)
	if err != nil {
		return nil, err
	}
	return exporter.FullResults(heat), nil
}

// List returns references to every stored heat, optionally limited to one
// track. An empty track lists all of them.
func (s *HeatService) List(ctx context.Context, track domain.Track) ([]domain.HeatRef, error) {
	refs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if track == "" {
		return refs, nil
	}
	out := make([]domain.HeatRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Track == track {
			out = append(out, ref)
		}
	}
	return out, nil
}

// Delete removes a stored heat.
func (s *HeatService) Delete(ctx context.Context, track domain.Track, sessionID string) error {
	if err := checkRef(track, sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, track, sessionID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Heat deleted",
		slog.String("track", string(track)),
		slog.String("session_id", sessionID))
	s.broadcast(events.MessageTypeHeatDeleted, events.HeatEvent{Track: string(track), SessionID: sessionID})
	return nil
}

// Export renders a stored heat in format.
func (s *HeatService) Export(ctx context.Context, track domain.Track, sessionID string, format exporter.Format) (*ExportResult, error) {
	writer, err := exporter.ForFormat(format, s.logger)
	if err != nil {
		return nil, err
	}
	heat, err := s.Get(ctx, track, sessionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, heat); err != nil {
		return nil, fmt.Errorf("export heat %s: %w", heat.Ref(), err)
	}
	s.metrics.RecordExport(ctx, string(format))

	return &ExportResult{
		Filename:    fmt.Sprintf("heat_%s_%s.%s", track, sessionID, writer.Extension()),
		ContentType: writer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *HeatService) broadcast(messageType events.MessageType, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(string(messageType), data)
}

func heatEvent(heat *domain.Heat) events.HeatEvent {
	return events.HeatEvent{
		Track:     string(heat.Track),
		SessionID: heat.SessionID,
		Drivers:   heat.DriverCount(),
		Laps:      heat.LapCount(),
	}
}

func checkRef(track domain.Track, sessionID string) error {
	if !track.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTrack, track)
	}
	return domain.ValidateSessionID(sessionID)
}

// Failed returns the results that carry an error.
func Failed(results []BatchResult) []BatchResult {
	var out []BatchResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// IsNoHeatData reports whether err means the page held no heat.
func IsNoHeatData(err error) bool {
	return errors.Is(err, ErrNoHeatData)
}
