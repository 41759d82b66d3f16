package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriterWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(nil).Write(&buf, testHeat()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	r := csv.NewReader(bytes.NewReader(data[len(utf8BOM):]))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	// csv.Reader skips blank lines, so the separators do not show up here.
	assert.Equal(t, [][]string{
		{"Driver", "Ann", "Bob"},
		{"Kart", "7", "12a"},
		{"Lap", "Ann", "Bob"},
		{"1", "41.200", "42.010"},
		{"2", "40.900", "41.330 pit"},
		{"3", "", "41.100"},
		{"Best", "40.900", "41.100"},
		{"S1 kart", "7", "12a"},
	}, records)
	assert.Contains(t, string(data), "3,,41.100\n\nBest,40.900,41.100\n\nS1 kart,7,12a\n")
}

func TestCSVWriterWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "heat_narvskaya_83557.csv")
	require.NoError(t, NewCSVWriter(nil).WriteFile(path, testHeat()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "Driver,Ann,Bob\n")
}
