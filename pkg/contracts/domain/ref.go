package domain

import (
	"fmt"
	"sort"
)

// HeatRef identifies a stored heat.
type HeatRef struct {
	Track     Track  `json:"track"`
	SessionID string `json:"session_id"`
}

func (r HeatRef) String() string {
	return fmt.Sprintf("%s/%s", r.Track, r.SessionID)
}

// Ref returns the reference of h.
func (h *Heat) Ref() HeatRef {
	return HeatRef{Track: h.Track, SessionID: h.SessionID}
}

// SortRefs orders refs by track, then session id.
func SortRefs(refs []HeatRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Track != refs[j].Track {
			return refs[i].Track < refs[j].Track
		}
		return refs[i].SessionID < refs[j].SessionID
	})
}

// ValidateSessionID checks that id is safe to use in file names and URLs.
func ValidateSessionID(id string) error {
	if id == "" || len(id) > 64 {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
		}
	}
	return nil
}
