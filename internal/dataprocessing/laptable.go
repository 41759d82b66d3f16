package dataprocessing

import (
	"strings"

	"kartlap/pkg/contracts/domain"
)

// ExtractLapTable builds the lap table from raw page rows. The header is
// "Lap" followed by the driver header cells; each lap row is padded with ""
// or truncated to the header width. The result is empty when either marker
// row is missing or no lap rows are found.
func ExtractLapTable(rows domain.RawTable) domain.LapTable {
	table, _ := extractLapTable(rows)
	return table
}

// extractLapTable also reports how many rows had to be padded or truncated.
func extractLapTable(rows domain.RawTable) (domain.LapTable, int) {
	driverIdx := LocateMarker(rows, domain.LabelDriver)
	kartIdx := LocateMarker(rows, domain.LabelKart)
	if driverIdx < 0 || kartIdx < 0 {
		return domain.LapTable{}, 0
	}

	header := make([]string, 0, len(rows[driverIdx]))
	header = append(header, domain.LabelLap)
	header = append(header, rows[driverIdx][1:]...)

	var (
		laps   [][]string
		ragged int
	)
	for _, row := range rows[kartIdx+1 : lapBlockEnd(rows, kartIdx)] {
		if len(row) == 0 || !isLapNumber(row[0]) {
			continue
		}
		if len(row) != len(header) {
			ragged++
		}
		laps = append(laps, fitRow(row, len(header)))
	}
	if len(laps) == 0 {
		return domain.LapTable{}, ragged
	}
	return domain.LapTable{Header: header, Rows: laps}, ragged
}

// fitRow returns a copy of row with exactly width cells.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// ExtractSideInfo returns every Best, Avg and Dev row in page order.
func ExtractSideInfo(rows domain.RawTable) [][]string {
	out := [][]string{}
	for _, row := range rows {
		if len(row) > 0 && domain.IsSummaryLabel(strings.TrimSpace(row[0])) {
			out = append(out, append([]string{}, row...))
		}
	}
	return out
}

// ExtractStintInfo returns the rows from the first "S1 kart" row to the end.
func ExtractStintInfo(rows domain.RawTable) [][]string {
	idx := LocateMarker(rows, domain.LabelStint)
	if idx < 0 {
		return [][]string{}
	}
	return rows[idx:].Clone()
}
