package api

import (
	"kartlap/pkg/contracts/domain"
)

// HeatSummary describes a reconstructed heat without its laps.
type HeatSummary struct {
	Track     domain.Track `json:"track"`
	SessionID string       `json:"session_id"`
	Drivers   int          `json:"drivers"`
	Laps      int          `json:"laps"`
}

// HeatDetail is the full heat: its persisted record plus the derived lap
// table.
type HeatDetail struct {
	HeatSummary
	DriverNames []string          `json:"driver_names"`
	KartNumbers []string          `json:"kart_numbers"`
	LapTable    [][]string        `json:"lap_table"`
	Record      domain.HeatRecord `json:"record"`
}

// ResultsResponse carries the console/CSV results table.
type ResultsResponse struct {
	Track     domain.Track `json:"track"`
	SessionID string       `json:"session_id"`
	Rows      [][]string   `json:"rows"`
}

// BatchItem is the outcome of one session of a batch import.
type BatchItem struct {
	SessionID string       `json:"session_id"`
	Status    string       `json:"status"`
	Heat      *HeatSummary `json:"heat,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Batch item statuses.
const (
	BatchStatusImported = "imported"
	BatchStatusFailed   = "failed"
)

// BatchImportResponse lists per-session outcomes in request order.
type BatchImportResponse struct {
	Track    domain.Track `json:"track"`
	Total    int          `json:"total"`
	Imported int          `json:"imported"`
	Failed   int          `json:"failed"`
	Results  []BatchItem  `json:"results"`
}

// HeatListResponse lists stored heats.
type HeatListResponse struct {
	Heats []domain.HeatRef `json:"heats"`
	Count int              `json:"count"`
}

// TrackInfo describes a supported track.
type TrackInfo struct {
	Name    domain.Track `json:"name"`
	Default bool         `json:"default"`
}

// TracksResponse lists supported tracks.
type TracksResponse struct {
	Tracks []TrackInfo `json:"tracks"`
}

// NewHeatSummary summarizes heat.
func NewHeatSummary(heat *domain.Heat) HeatSummary {
	return HeatSummary{
		Track:     heat.Track,
		SessionID: heat.SessionID,
		Drivers:   heat.DriverCount(),
		Laps:      heat.LapCount(),
	}
}

// NewHeatDetail renders heat with its lap table.
func NewHeatDetail(heat *domain.Heat) HeatDetail {
	return HeatDetail{
		HeatSummary: NewHeatSummary(heat),
		DriverNames: heat.DriverNames(),
		KartNumbers: heat.KartNumbers(),
		LapTable:    heat.TimeRows(),
		Record:      heat.Record(),
	}
}

// NewTracksResponse lists every supported track.
func NewTracksResponse() TracksResponse {
	tracks := domain.Tracks()
	out := TracksResponse{Tracks: make([]TrackInfo, 0, len(tracks))}
	for _, t := range tracks {
		out.Tracks = append(out.Tracks, TrackInfo{Name: t, Default: t == domain.DefaultTrack})
	}
	return out
}
