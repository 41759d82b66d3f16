package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartlap/internal/dataprocessing"
	"kartlap/pkg/contracts/domain"
)

const heatPage = `<html><body>
<h1>Heat 83557</h1>
<table>
  <tr><th>Driver</th><th> Ann </th><th>Bob</th></tr>
  <tr><td>Kart</td><td>7</td><td>12</td></tr>
  <tr><td>1</td><td>41.200</td><td>42.010</td></tr>
  <tr><td>2</td><td>40.900</td><td>41.330
      pit</td></tr>
</table>
<table>
  <tr><td>Best</td><td>40.900</td><td>41.330</td></tr>
  <tr><td>S1 kart</td><td>7</td><td>12</td></tr>
</table>
</body></html>`

func TestRowsFromHTML(t *testing.T) {
	rows, err := RowsFromHTML(strings.NewReader(heatPage))
	require.NoError(t, err)

	assert.Equal(t, domain.RawTable{
		{"Driver", "Ann", "Bob"},
		{"Kart", "7", "12"},
		{"1", "41.200", "42.010"},
		{"2", "40.900", "41.330 pit"},
		{"Best", "40.900", "41.330"},
		{"S1 kart", "7", "12"},
	}, rows)
}

func TestRowsFromHTMLWithoutTables(t *testing.T) {
	rows, err := RowsFromHTML(strings.NewReader("<html><body><p>no heat</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsFromHTMLFeedsParser(t *testing.T) {
	rows, err := RowsFromHTML(strings.NewReader(heatPage))
	require.NoError(t, err)
	assert.Equal(t, 1, dataprocessing.LocateMarker(rows, domain.LabelKart))
}
