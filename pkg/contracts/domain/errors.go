package domain

import "errors"

var (
	// ErrRecordNotFound is returned when a persisted heat does not exist.
	ErrRecordNotFound = errors.New("heat record not found")

	// ErrMalformedRecord is returned when a persisted heat cannot be decoded
	// or lacks its session id.
	ErrMalformedRecord = errors.New("malformed heat record")

	// ErrUnknownTrack is returned for track names outside Tracks().
	ErrUnknownTrack = errors.New("unknown track")
)

// ErrInvalidSessionID is returned for session ids that are empty or contain
// characters other than letters, digits, '-' and '_'.
var ErrInvalidSessionID = errors.New("invalid session id")
