package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kartlap/pkg/contracts/domain"
)

func TestLocateMarker(t *testing.T) {
	rows := domain.RawTable{
		{"Heat 83557"},
		{},
		{"Driver", "A", "B"},
		{" Kart ", "1", "2"},
		{"1", "Best", "10.5"},
		{"Best", "9.9", "10.0"},
		{"Best", "9.8", "9.7"},
	}

	tests := []struct {
		label string
		want  int
	}{
		{label: "Driver", want: 2},
		{label: "Kart", want: 3},
		{label: "Best", want: 5},
		{label: "driver", want: -1},
		{label: "Avg", want: -1},
		{label: "A", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, LocateMarker(rows, tt.label))
		})
	}
}

func TestLocateMarkerEmpty(t *testing.T) {
	assert.Equal(t, -1, LocateMarker(nil, "Driver"))
	assert.Equal(t, -1, LocateMarker(domain.RawTable{{}}, ""))
}

func TestIsLapNumber(t *testing.T) {
	assert.True(t, isLapNumber("1"))
	assert.True(t, isLapNumber("012"))
	assert.False(t, isLapNumber(""))
	assert.False(t, isLapNumber("-1"))
	assert.False(t, isLapNumber("1.5"))
	assert.False(t, isLapNumber("Best"))
}
