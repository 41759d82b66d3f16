package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"kartlap/pkg/contracts/domain"
)

// HeatParser builds heats from raw page rows.
type HeatParser struct {
	logger *slog.Logger
}

// NewHeatParser creates a parser. A nil logger falls back to slog.Default().
func NewHeatParser(logger *slog.Logger) *HeatParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeatParser{logger: logger.With(slog.String("component", "heat_parser"))}
}

// Parse reconstructs a heat from rows. It never fails: missing markers yield
// a heat without drivers and ragged lap rows are padded.
func (p *HeatParser) Parse(ctx context.Context, sessionID string, track domain.Track, rows domain.RawTable) *domain.Heat {
	log := p.logger.With(slog.String("session_id", sessionID), slog.String("track", string(track)))

	sideInfo := ExtractSideInfo(rows)
	stintInfo := ExtractStintInfo(rows)

	driverIdx := LocateMarker(rows, domain.LabelDriver)
	kartIdx := LocateMarker(rows, domain.LabelKart)
	if driverIdx < 0 || kartIdx < 0 {
		log.InfoContext(ctx, "Heat page has no driver table",
			slog.Bool("driver_row_found", driverIdx >= 0),
			slog.Bool("kart_row_found", kartIdx >= 0),
			slog.Int("rows", len(rows)))
		return domain.NewHeat(sessionID, track, nil, sideInfo, stintInfo)
	}

	drivers := buildDrivers(rows[driverIdx], rows[kartIdx])

	table, ragged := extractLapTable(rows)
	if ragged > 0 {
		log.DebugContext(ctx, "Lap rows aligned to driver header",
			slog.Int("ragged_rows", ragged),
			slog.Int("width", len(table.Header)))
	}
	for i, d := range drivers {
		if i+1 >= len(table.Header) {
			break
		}
		for _, cell := range table.Column(i + 1) {
			d.AddLapTime(cell)
		}
	}

	heat := domain.NewHeat(sessionID, track, drivers, sideInfo, stintInfo)
	log.DebugContext(ctx, "Heat parsed",
		slog.Int("drivers", heat.DriverCount()),
		slog.Int("laps", len(table.Rows)),
		slog.Int("side_rows", len(sideInfo)),
		slog.Int("stint_rows", len(stintInfo)))
	return heat
}

// buildDrivers pairs driver names with kart cells by column. Places follow
// column order starting at 1; extra cells in the longer row are ignored.
func buildDrivers(driverRow, kartRow []string) []*domain.Driver {
	names := driverRow[1:]
	karts := kartRow[1:]
	n := len(names)
	if len(karts) < n {
		n = len(karts)
	}

	drivers := make([]*domain.Driver, 0, n)
	for i := 0; i < n; i++ {
		drivers = append(drivers, domain.NewDriver(i+1, strings.TrimSpace(names[i]), domain.ParseKartID(karts[i])))
	}
	return drivers
}
