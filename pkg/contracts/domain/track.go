package domain

import (
	"fmt"
	"strings"
)

// Track identifies a karting venue served by the timing website.
type Track string

const (
	TrackNarvskaya Track = "narvskaya"
	TrackPremium   Track = "premium"
	TrackDrive     Track = "drive"

	// DefaultTrack is used when a record or request omits the track.
	DefaultTrack = TrackNarvskaya
)

// Tracks returns every known track in display order.
func Tracks() []Track {
	return []Track{TrackNarvskaya, TrackPremium, TrackDrive}
}

// Valid reports whether t is one of the known tracks.
func (t Track) Valid() bool {
	switch t {
	case TrackNarvskaya, TrackPremium, TrackDrive:
		return true
	}
	return false
}

func (t Track) String() string {
	return string(t)
}

// ParseTrack converts user input into a Track. Empty input yields DefaultTrack.
func ParseTrack(s string) (Track, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTrack, nil
	}
	t := Track(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
	}
	return t, nil
}
