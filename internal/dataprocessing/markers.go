package dataprocessing

import (
	"strings"

	"kartlap/pkg/contracts/domain"
)

// LocateMarker returns the index of the first row whose trimmed first cell
// equals label, or -1. Matching is exact and case-sensitive; cells after the
// first are never inspected.
func LocateMarker(rows domain.RawTable, label string) int {
	return locateMarkerFrom(rows, label, 0)
}

func locateMarkerFrom(rows domain.RawTable, label string, start int) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(rows); i++ {
		if len(rows[i]) > 0 && strings.TrimSpace(rows[i][0]) == label {
			return i
		}
	}
	return -1
}

// lapBlockTerminators end the lap block, whichever comes first after "Kart".
var lapBlockTerminators = []string{domain.LabelBest, domain.LabelGap, domain.LabelStint}

// lapBlockEnd returns the exclusive end of the lap block that starts after
// kartIdx.
func lapBlockEnd(rows domain.RawTable, kartIdx int) int {
	end := len(rows)
	for _, label := range lapBlockTerminators {
		if idx := locateMarkerFrom(rows, label, kartIdx+1); idx >= 0 && idx < end {
			end = idx
		}
	}
	return end
}

// isLapNumber reports whether cell is a non-negative integer string.
func isLapNumber(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	for i := 0; i < len(cell); i++ {
		if cell[i] < '0' || cell[i] > '9' {
			return false
		}
	}
	return true
}
