package files

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kartlap/pkg/contracts/domain"
)

func TestParseHeatFileName(t *testing.T) {
	tests := []struct {
		name string
		want domain.HeatRef
		ok   bool
	}{
		{"heat_narvskaya_83557.json", domain.HeatRef{Track: domain.TrackNarvskaya, SessionID: "83557"}, true},
		{"heat_drive_a_b.json", domain.HeatRef{Track: domain.TrackDrive, SessionID: "a_b"}, true},
		{"heat_83557.json", domain.HeatRef{}, false},
		{"heat_monaco_1.json", domain.HeatRef{}, false},
		{"heat_drive_1.xlsx", domain.HeatRef{}, false},
		{".heat_drive_1.json.123", domain.HeatRef{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseHeatFileName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestFindHeatFilesMissingDir(t *testing.T) {
	found, err := NewDiscovery("/definitely/not/here").FindHeatFiles()
	assert.NoError(t, err)
	assert.Empty(t, found)
}
