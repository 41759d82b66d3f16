package services

import "errors"

// Heat service errors
var (
	// ErrNoHeatData is returned when a fetched page holds no driver table.
	ErrNoHeatData = errors.New("no heat data on page")

	ErrEmptyBatch = errors.New("no session ids given")
)
