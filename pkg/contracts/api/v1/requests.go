// Package api contains the request and response contracts of the kartlap
// HTTP API. Version v1 represents the current stable API version.
package api

import (
	"kartlap/pkg/contracts/domain"
)

// MaxBatchSize bounds the number of sessions in one batch import.
const MaxBatchSize = 100

// ImportRequest asks the server to fetch and reconstruct one heat.
type ImportRequest struct {
	Track     string `json:"track" validate:"omitempty,track"`
	SessionID string `json:"session_id" validate:"required,session_id"`
}

// BatchImportRequest imports several sessions of the same track.
type BatchImportRequest struct {
	Track      string   `json:"track" validate:"omitempty,track"`
	SessionIDs []string `json:"session_ids" validate:"required,min=1,max=100,dive,session_id"`
	Workers    int      `json:"workers,omitempty" validate:"omitempty,min=1,max=16"`
}

// TrackOrDefault returns the parsed track, or the default track when none
// was given. Call it after validation.
func (r ImportRequest) TrackOrDefault() domain.Track {
	t, _ := domain.ParseTrack(r.Track)
	return t
}

// TrackOrDefault returns the parsed track, or the default track when none
// was given. Call it after validation.
func (r BatchImportRequest) TrackOrDefault() domain.Track {
	t, _ := domain.ParseTrack(r.Track)
	return t
}
