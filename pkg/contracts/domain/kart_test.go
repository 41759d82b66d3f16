package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKartID(t *testing.T) {
	tests := []struct {
		cell        string
		wantNumeric bool
		wantNumber  int
		wantString  string
	}{
		{cell: "12", wantNumeric: true, wantNumber: 12, wantString: "12"},
		{cell: " 7 ", wantNumeric: true, wantNumber: 7, wantString: "7"},
		{cell: "007", wantNumeric: true, wantNumber: 7, wantString: "7"},
		{cell: "12A", wantString: "12A"},
		{cell: "-3", wantString: "-3"},
		{cell: "", wantString: ""},
		{cell: "99999999999999999999", wantString: "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			k := ParseKartID(tt.cell)
			n, numeric := k.Number()
			assert.Equal(t, tt.wantNumeric, numeric)
			assert.Equal(t, tt.wantNumber, n)
			assert.Equal(t, tt.wantString, k.String())
		})
	}
}

func TestKartIDJSON(t *testing.T) {
	t.Run("number stays a number", func(t *testing.T) {
		data, err := json.Marshal(KartNumber(21))
		require.NoError(t, err)
		assert.Equal(t, "21", string(data))

		var k KartID
		require.NoError(t, json.Unmarshal(data, &k))
		assert.Equal(t, KartNumber(21), k)
	})

	t.Run("label stays a label", func(t *testing.T) {
		data, err := json.Marshal(KartLabel("33"))
		require.NoError(t, err)
		assert.Equal(t, `"33"`, string(data))

		var k KartID
		require.NoError(t, json.Unmarshal(data, &k))
		_, numeric := k.Number()
		assert.False(t, numeric)
		assert.Equal(t, "33", k.String())
	})

	t.Run("null decodes to zero", func(t *testing.T) {
		var k KartID
		require.NoError(t, json.Unmarshal([]byte("null"), &k))
		assert.True(t, k.IsZero())
	})

	t.Run("integral float", func(t *testing.T) {
		var k KartID
		require.NoError(t, json.Unmarshal([]byte("5.0"), &k))
		assert.Equal(t, KartNumber(5), k)
	})

	t.Run("invalid", func(t *testing.T) {
		var k KartID
		assert.Error(t, json.Unmarshal([]byte("[1]"), &k))
	})
}
