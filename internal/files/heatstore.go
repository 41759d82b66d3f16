package files

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"kartlap/internal/config"
	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// HeatStore keeps one JSON record per heat in the heats directory
type HeatStore struct {
	dir     string
	manager *Manager
	logger  *slog.Logger
}

// NewHeatStore creates a store rooted at paths.HeatsDir
func NewHeatStore(paths *config.Paths, logger *slog.Logger) *HeatStore {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "heat_store"))
	return &HeatStore{
		dir:     paths.HeatsDir,
		manager: NewManager(paths.HeatsDir, logger),
		logger:  logger,
	}
}

// Save writes the heat record, replacing any previous version.
func (s *HeatStore) Save(ctx context.Context, heat *domain.Heat) error {
	if err := domain.ValidateSessionID(heat.SessionID); err != nil {
		return err
	}
	path := config.HeatFileName(heat.Track, heat.SessionID, "json")
	if err := s.SaveFile(path, heat); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Heat saved",
		slog.String("track", string(heat.Track)),
		slog.String("session_id", heat.SessionID),
		slog.Int("drivers", heat.DriverCount()))
	return nil
}

// Load reads a heat by reference. A missing record yields an error wrapping
// domain.ErrRecordNotFound.
func (s *HeatStore) Load(ctx context.Context, track domain.Track, sessionID string) (*domain.Heat, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	heat, err := s.LoadFile(config.HeatFileName(track, sessionID, "json"))
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Heat loaded",
		slog.String("track", string(track)),
		slog.String("session_id", sessionID))
	return heat, nil
}

// List returns the references of every stored heat.
func (s *HeatStore) List(ctx context.Context) ([]domain.HeatRef, error) {
	found, err := NewDiscovery(s.dir).FindHeatFiles()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list heats", err)
	}
	refs := make([]domain.HeatRef, len(found))
	for i, f := range found {
		refs[i] = f.Ref
	}
	return refs, nil
}

// Delete removes a stored heat.
func (s *HeatStore) Delete(ctx context.Context, track domain.Track, sessionID string) error {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return err
	}
	ref := domain.HeatRef{Track: track, SessionID: sessionID}
	if err := s.manager.DeleteFile(config.HeatFileName(track, sessionID, "json")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NewNotFoundError("heat "+ref.String(), domain.ErrRecordNotFound)
		}
		return apperrors.NewStorageError("failed to delete heat "+ref.String(), err)
	}
	return nil
}

// SaveFile writes heat to an explicit path. Relative paths are resolved
// against the heats directory.
func (s *HeatStore) SaveFile(path string, heat *domain.Heat) error {
	data, err := domain.EncodeHeat(heat)
	if err != nil {
		return apperrors.NewStorageError("failed to encode heat", err)
	}
	if err := s.manager.WriteFile(path, data); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", filepath.Base(path)), err).
			WithContext("path", path)
	}
	return nil
}

// LoadFile reads a heat from an explicit path.
func (s *HeatStore) LoadFile(path string) (*domain.Heat, error) {
	data, err := s.manager.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("heat file %s", filepath.Base(path)), domain.ErrRecordNotFound)
		}
		return nil, apperrors.NewStorageError("failed to read heat file", err)
	}
	heat, err := domain.DecodeHeat(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return heat, nil
}
