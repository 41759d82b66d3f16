package domain

import (
	"fmt"
	"strconv"
)

// Heat is one timed session on a track. Drivers are kept in column order and
// are the single source of truth for lap data; the lap table is derived from
// them on demand.
type Heat struct {
	SessionID string
	Track     Track

	drivers   []*Driver
	sideInfo  [][]string
	stintInfo [][]string
}

// NewHeat assembles a heat from already built drivers. The heat takes
// ownership of drivers; the info rows are copied.
func NewHeat(sessionID string, track Track, drivers []*Driver, sideInfo, stintInfo [][]string) *Heat {
	if track == "" {
		track = DefaultTrack
	}
	return &Heat{
		SessionID: sessionID,
		Track:     track,
		drivers:   drivers,
		sideInfo:  cloneRows(sideInfo),
		stintInfo: cloneRows(stintInfo),
	}
}

// Drivers returns copies of the drivers in column order.
func (h *Heat) Drivers() []*Driver {
	out := make([]*Driver, len(h.drivers))
	for i, d := range h.drivers {
		out[i] = d.Clone()
	}
	return out
}

// DriverCount returns the number of drivers.
func (h *Heat) DriverCount() int {
	return len(h.drivers)
}

// AddDriver appends a driver as the next column.
func (h *Heat) AddDriver(d *Driver) {
	h.drivers = append(h.drivers, d)
}

// AddLapTime appends a lap time to the driver at column idx.
func (h *Heat) AddLapTime(idx int, t string) error {
	if idx < 0 || idx >= len(h.drivers) {
		return fmt.Errorf("driver index %d out of range [0,%d)", idx, len(h.drivers))
	}
	h.drivers[idx].AddLapTime(t)
	return nil
}

// LapCount returns the length of the longest lap list.
func (h *Heat) LapCount() int {
	longest := 0
	for _, d := range h.drivers {
		if n := d.LapCount(); n > longest {
			longest = n
		}
	}
	return longest
}

// LapTable builds the column view: lap numbers 1..LapCount() and one column
// per driver, shorter columns padded with "".
func (h *Heat) LapTable() LapTable {
	laps := h.LapCount()
	if len(h.drivers) == 0 || laps == 0 {
		return LapTable{}
	}

	header := make([]string, 0, len(h.drivers)+1)
	header = append(header, LabelLap)
	for _, d := range h.drivers {
		header = append(header, d.DisplayName())
	}

	rows := make([][]string, laps)
	for i := range rows {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(i + 1)
		for j, d := range h.drivers {
			if i < len(d.lapTimes) {
				row[j+1] = d.lapTimes[i]
			}
		}
		rows[i] = row
	}
	return LapTable{Header: header, Rows: rows}
}

// DriverNames returns ["Driver", name1, name2, ...]. Unknown names are "".
func (h *Heat) DriverNames() []string {
	out := make([]string, 0, len(h.drivers)+1)
	out = append(out, LabelDriver)
	for _, d := range h.drivers {
		out = append(out, d.DisplayName())
	}
	return out
}

// KartNumbers returns ["Kart", kart1, kart2, ...].
func (h *Heat) KartNumbers() []string {
	out := make([]string, 0, len(h.drivers)+1)
	out = append(out, LabelKart)
	for _, d := range h.drivers {
		out = append(out, d.Kart().String())
	}
	return out
}

// TimeRows returns the lap table as header followed by rows, or an empty
// slice when there are no laps.
func (h *Heat) TimeRows() [][]string {
	table := h.LapTable()
	if table.Empty() {
		return [][]string{}
	}
	out := make([][]string, 0, len(table.Rows)+1)
	out = append(out, table.Header)
	return append(out, table.Rows...)
}

// SideInfo returns a copy of the Best/Avg/Dev rows.
func (h *Heat) SideInfo() [][]string {
	return cloneRows(h.sideInfo)
}

// StintInfo returns a copy of the stint rows.
func (h *Heat) StintInfo() [][]string {
	return cloneRows(h.stintInfo)
}

func (h *Heat) String() string {
	return fmt.Sprintf("heat %s/%s: %d drivers, %d laps", h.Track, h.SessionID, len(h.drivers), h.LapCount())
}
