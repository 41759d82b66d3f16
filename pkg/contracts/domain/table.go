package domain

import "strings"

// RawTable is the flattened content of every table row on a heat page, in
// document order. Rows may have different lengths.
type RawTable [][]string

// Clone returns a deep copy of the table.
func (t RawTable) Clone() RawTable {
	return RawTable(cloneRows(t))
}

// LapTable is the column view of lap times: a "Lap" column followed by one
// column per driver. Every row has len(Header) cells.
type LapTable struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no lap rows. A header without rows is
// considered empty.
func (t LapTable) Empty() bool {
	return len(t.Rows) == 0
}

// DriverColumns returns the number of driver columns.
func (t LapTable) DriverColumns() int {
	if len(t.Header) == 0 {
		return 0
	}
	return len(t.Header) - 1
}

// Column returns the cells of column idx in row order.
func (t LapTable) Column(idx int) []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t LapTable) Clone() LapTable {
	return LapTable{
		Header: append([]string(nil), t.Header...),
		Rows:   cloneRows(t.Rows),
	}
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{}, row...)
	}
	return out
}

// NormalizeCell trims s and collapses internal whitespace runs to one space.
func NormalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
