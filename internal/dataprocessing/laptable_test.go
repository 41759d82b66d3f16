package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartlap/pkg/contracts/domain"
)

func TestExtractLapTable(t *testing.T) {
	tests := []struct {
		name string
		rows domain.RawTable
		want domain.LapTable
	}{
		{
			name: "basic block",
			rows: domain.RawTable{
				{"Driver", "A", "B"},
				{"Kart", "1", "2"},
				{"1", "10.1", "10.5"},
				{"2", "9.9", "10.0"},
				{"Best", "9.9", "10.0"},
			},
			want: domain.LapTable{
				Header: []string{"Lap", "A", "B"},
				Rows:   [][]string{{"1", "10.1", "10.5"}, {"2", "9.9", "10.0"}},
			},
		},
		{
			name: "short row is padded",
			rows: domain.RawTable{
				{"Driver", "A", "B", "C"},
				{"Kart", "1", "2", "3"},
				{"1", "10.1"},
			},
			want: domain.LapTable{
				Header: []string{"Lap", "A", "B", "C"},
				Rows:   [][]string{{"1", "10.1", "", ""}},
			},
		},
		{
			name: "long row is truncated",
			rows: domain.RawTable{
				{"Driver", "A"},
				{"Kart", "1"},
				{"1", "10.1", "extra"},
			},
			want: domain.LapTable{
				Header: []string{"Lap", "A"},
				Rows:   [][]string{{"1", "10.1"}},
			},
		},
		{
			name: "non numeric rows are skipped",
			rows: domain.RawTable{
				{"Driver", "A"},
				{"Kart", "1"},
				{"Lap", "A"},
				{},
				{"1", "10.1"},
				{"pit", "x"},
				{"2", "10.2"},
			},
			want: domain.LapTable{
				Header: []string{"Lap", "A"},
				Rows:   [][]string{{"1", "10.1"}, {"2", "10.2"}},
			},
		},
		{
			name: "stint rows after the block are ignored",
			rows: domain.RawTable{
				{"Driver", "A"},
				{"Kart", "1"},
				{"1", "10.1"},
				{"S1 kart", "1"},
				{"1", "stint"},
			},
			want: domain.LapTable{
				Header: []string{"Lap", "A"},
				Rows:   [][]string{{"1", "10.1"}},
			},
		},
		{
			name: "no lap rows",
			rows: domain.RawTable{
				{"Driver", "A"},
				{"Kart", "1"},
				{"Best", "10.1"},
			},
			want: domain.LapTable{},
		},
		{
			name: "missing kart row",
			rows: domain.RawTable{
				{"Driver", "A"},
				{"1", "10.1"},
			},
			want: domain.LapTable{},
		},
		{
			name: "empty input",
			rows: nil,
			want: domain.LapTable{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLapTable(tt.rows)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractLapTableDoesNotAliasInput(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", "A"},
		{"Kart", "1"},
		{"1", "10.1"},
	}
	table := ExtractLapTable(rows)
	require.Len(t, table.Rows, 1)

	table.Rows[0][1] = "changed"
	table.Header[1] = "changed"
	assert.Equal(t, "10.1", rows[2][1])
	assert.Equal(t, "A", rows[0][1])
}

func TestExtractSideAndStintInfo(t *testing.T) {
	rows := domain.RawTable{
		{"Driver", "A", "B"},
		{"Kart", "1", "2"},
		{"1", "10.1", "10.5"},
		{"Gap", "", "0.4"},
		{"Best", "10.1", "10.5"},
		{"Avg", "10.1", "10.5"},
		{"Dev", "0", "0"},
		{"S1 kart", "1", "2"},
		{"S1 laps", "1", "1"},
		{"Best", "late"},
	}

	assert.Equal(t, [][]string{
		{"Best", "10.1", "10.5"},
		{"Avg", "10.1", "10.5"},
		{"Dev", "0", "0"},
		{"Best", "late"},
	}, ExtractSideInfo(rows))

	assert.Equal(t, [][]string{
		{"S1 kart", "1", "2"},
		{"S1 laps", "1", "1"},
		{"Best", "late"},
	}, ExtractStintInfo(rows))

	assert.Equal(t, [][]string{}, ExtractStintInfo(rows[:3]))
	assert.Equal(t, [][]string{}, ExtractSideInfo(nil))
}
