package dataprocessing

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartlap/pkg/contracts/domain"
)

func newTestParser(buf *bytes.Buffer) *HeatParser {
	return NewHeatParser(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestParseExampleHeat(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", "A", "B"},
		{"Kart", "1", "2"},
		{"1", "10.1", "10.5"},
		{"2", "9.9", "10.0"},
		{"Best", "9.9", "10.0"},
	}

	heat := NewHeatParser(nil).Parse(context.Background(), "83557", domain.TrackNarvskaya, rows)

	assert.Equal(t, []string{"Driver", "A", "B"}, heat.DriverNames())
	assert.Equal(t, []string{"Kart", "1", "2"}, heat.KartNumbers())
	assert.Equal(t, [][]string{
		{"Lap", "A", "B"},
		{"1", "10.1", "10.5"},
		{"2", "9.9", "10.0"},
	}, heat.TimeRows())
	assert.Equal(t, [][]string{{"Best", "9.9", "10.0"}}, heat.SideInfo())
	assert.Empty(t, heat.StintInfo())

	drivers := heat.Drivers()
	require.Len(t, drivers, 2)
	assert.Equal(t, []string{"10.1", "9.9"}, drivers[0].LapTimes())
	assert.Equal(t, []string{"10.5", "10.0"}, drivers[1].LapTimes())
	n, numeric := drivers[1].Kart().Number()
	assert.True(t, numeric)
	assert.Equal(t, 2, n)
}

func TestParsePlacesFollowColumns(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", " Ann ", "Bob", "Cid", "Dan"},
		{"Kart", "7", "12", "3b", "5"},
	}

	heat := NewHeatParser(nil).Parse(context.Background(), "1", domain.TrackDrive, rows)

	drivers := heat.Drivers()
	require.Len(t, drivers, 4)
	for i, d := range drivers {
		place, ok := d.Place()
		assert.True(t, ok)
		assert.Equal(t, i+1, place)
	}
	assert.Equal(t, "Ann", drivers[0].DisplayName())
	assert.Equal(t, "3b", drivers[2].Kart().String())
	assert.Empty(t, heat.TimeRows())
}

func TestParseMismatchedHeaderLengths(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", "A", "B", "C"},
		{"Kart", "1", "2"},
		{"1", "10.1", "10.5", "11.0"},
	}

	heat := NewHeatParser(nil).Parse(context.Background(), "1", domain.TrackDrive, rows)

	assert.Equal(t, 2, heat.DriverCount())
	table := heat.LapTable()
	assert.Equal(t, heat.DriverCount(), table.DriverColumns())
	assert.Equal(t, [][]string{{"Lap", "A", "B"}, {"1", "10.1", "10.5"}}, heat.TimeRows())
}

func TestParseRaggedRows(t *testing.T) {
	var buf bytes.Buffer
	rows := domain.RawTable{
		{"Driver", "A", "B", "C"},
		{"Kart", "1", "2", "3"},
		{"1", "30.1", "30.2", "30.3"},
		{"2", "29.9"},
		{"3", "29.5", "29.7", "29.8", "stray"},
	}

	heat := newTestParser(&buf).Parse(context.Background(), "9", domain.TrackPremium, rows)

	drivers := heat.Drivers()
	require.Len(t, drivers, 3)
	assert.Equal(t, []string{"30.2", "", "29.7"}, drivers[1].LapTimes())
	assert.Equal(t, []string{"30.3", "", "29.8"}, drivers[2].LapTimes())
	assert.Contains(t, buf.String(), `"ragged_rows":2`)
}

func TestParseMissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		rows domain.RawTable
	}{
		{name: "empty", rows: domain.RawTable{}},
		{name: "no driver row", rows: domain.RawTable{{"Kart", "1"}, {"1", "10.0"}}},
		{name: "no kart row", rows: domain.RawTable{{"Driver", "A"}, {"1", "10.0"}, {"Best", "10.0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			heat := newTestParser(&buf).Parse(context.Background(), "5", domain.TrackDrive, tt.rows)

			assert.Equal(t, 0, heat.DriverCount())
			assert.Equal(t, []string{"Driver"}, heat.DriverNames())
			assert.Equal(t, [][]string{}, heat.TimeRows())

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(bytes.SplitN(buf.Bytes(), []byte("\n"), 2)[0], &entry))
			assert.Equal(t, "INFO", entry["level"])
			assert.Equal(t, "heat_parser", entry["component"])
			assert.Equal(t, "5", entry["session_id"])
		})
	}
}

func TestParseKeepsSideInfoWithoutDrivers(t *testing.T) {
	rows := domain.RawTable{{"Best", "10.0"}, {"S1 kart", "4"}}

	heat := NewHeatParser(nil).Parse(context.Background(), "5", domain.TrackDrive, rows)

	assert.Equal(t, [][]string{{"Best", "10.0"}}, heat.SideInfo())
	assert.Equal(t, [][]string{{"S1 kart", "4"}}, heat.StintInfo())
}

func TestParseRoundTrip(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", "A", "B"},
		{"Kart", "11", "K2"},
		{"1", "41.0", "42.0"},
		{"2", "40.5"},
		{"3", "40.1", "41.9 pit"},
		{"Best", "40.1", "41.9"},
		{"S1 kart", "11", "K2"},
	}
	heat := NewHeatParser(nil).Parse(context.Background(), "77", domain.TrackNarvskaya, rows)

	data, err := domain.EncodeHeat(heat)
	require.NoError(t, err)
	loaded, err := domain.DecodeHeat(data)
	require.NoError(t, err)

	assert.Equal(t, heat.DriverNames(), loaded.DriverNames())
	assert.Equal(t, heat.KartNumbers(), loaded.KartNumbers())
	assert.Equal(t, heat.TimeRows(), loaded.TimeRows())
	assert.Equal(t, heat.SideInfo(), loaded.SideInfo())
	assert.Equal(t, heat.StintInfo(), loaded.StintInfo())
}
