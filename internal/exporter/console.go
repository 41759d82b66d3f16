package exporter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"kartlap/pkg/contracts/domain"
)

const (
	msgNoData    = "No data to display"
	msgNoLapData = "No lap data to display"
)

// ConsoleWriter prints aligned text tables.
type ConsoleWriter struct {
	w io.Writer
}

// NewConsoleWriter creates a ConsoleWriter printing to w.
func NewConsoleWriter(w io.Writer) *ConsoleWriter {
	return &ConsoleWriter{w: w}
}

// Print writes rows as fixed width columns joined by " | ". When header is
// true the first row is followed by a "-+-" rule.
func (c *ConsoleWriter) Print(rows [][]string, header bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(c.w, msgNoData)
		return err
	}

	widths := columnWidths(rows)
	start := 0
	if header {
		if _, err := fmt.Fprintln(c.w, formatRow(rows[0], widths)); err != nil {
			return err
		}
		rule := make([]string, len(widths))
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		if _, err := fmt.Fprintln(c.w, strings.Join(rule, "-+-")); err != nil {
			return err
		}
		start = 1
	}

	for _, row := range rows[start:] {
		if _, err := fmt.Fprintln(c.w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// PrintHeat prints the full results of heat.
func (c *ConsoleWriter) PrintHeat(heat *domain.Heat) error {
	if heat.DriverCount() == 0 {
		_, err := fmt.Fprintln(c.w, msgNoData)
		return err
	}
	rows := FullResults(heat)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(c.w, msgNoLapData)
		return err
	}
	if _, err := fmt.Fprintf(c.w, "%s\n\n", heat); err != nil {
		return err
	}
	return c.Print(rows, true)
}

// columnWidths measures in runes so Cyrillic names line up.
func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func formatRow(row []string, widths []int) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
	}
	return strings.Join(cells, " | ")
}
