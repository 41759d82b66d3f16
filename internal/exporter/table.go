package exporter

import (
	"strings"

	"kartlap/pkg/contracts/domain"
)

// FullResults stacks the driver row, the kart row and the lap table. The
// driver and kart rows are padded to the lap table width. A heat without
// lap data yields an empty grid.
func FullResults(heat *domain.Heat) [][]string {
	timeRows := heat.TimeRows()
	if len(timeRows) == 0 {
		return [][]string{}
	}

	width := len(timeRows[0])
	out := make([][]string, 0, len(timeRows)+2)
	out = append(out, padRow(heat.DriverNames(), width), padRow(heat.KartNumbers(), width))
	return append(out, timeRows...)
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// isAnnotated reports whether a lap cell carries a note next to the time,
// such as a pit stop or kart change.
func isAnnotated(cell string) bool {
	return strings.Contains(cell, " ")
}
