package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kartlap/internal/app"
	"kartlap/internal/services"
	"kartlap/pkg/contracts/domain"
)

const timingPage = `<html><body>
<table>
  <tr><th>Driver</th><th>Ann</th><th>Bob</th></tr>
  <tr><td>Kart</td><td>7</td><td>12</td></tr>
  <tr><td>1</td><td>41.200</td><td>42.010</td></tr>
  <tr><td>2</td><td>40.900</td><td>41.330</td></tr>
  <tr><td>Best</td><td>40.900</td><td>41.330</td></tr>
</table>
</body></html>`

type env struct {
	configFile string
	baseDir    string
}

// newEnv writes a config pointing at a local timing site that serves
// drive/83557 and 404s everything else.
func newEnv(t *testing.T) env {
	t.Helper()
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/drive/heats/83557" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, timingPage)
	}))
	t.Cleanup(site.Close)

	dir := t.TempDir()
	cfg := fmt.Sprintf(`paths:
  base_dir: %q
scraper:
  mode: http
  base_url: %q
  requests_per_second: 0
logging:
  level: error
`, dir, site.URL)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return env{configFile: path, baseDir: dir}
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand(c)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScrapeShowExport(t *testing.T) {
	e := newEnv(t)

	out, err := run(t, newCLI(), "--config", e.configFile, "scrape", "--track", "drive", "--session", "83557")
	require.NoError(t, err)
	assert.Contains(t, out, "heat drive/83557: 2 drivers, 2 laps")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "41.330")

	out, err = run(t, newCLI(), "--config", e.configFile, "show", "-t", "drive", "-s", "83557")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")

	exports := filepath.Join(e.baseDir, "out")
	out, err = run(t, newCLI(), "--config", e.configFile, "export", "-t", "drive", "-s", "83557", "--format", "csv", "--out", exports)
	require.NoError(t, err)
	path := filepath.Join(exports, "heat_drive_83557.csv")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ann")

	stored := filepath.Join(e.baseDir, "data", "heats_data", "heat_drive_83557.json")
	out, err = run(t, newCLI(), "--config", e.configFile, "show", "--file", stored)
	require.NoError(t, err)
	assert.Contains(t, out, "heat drive/83557")
}

func TestScrapeWithExport(t *testing.T) {
	e := newEnv(t)
	exports := filepath.Join(e.baseDir, "xlsx")

	_, err := run(t, newCLI(), "--config", e.configFile, "scrape", "-t", "drive", "-s", "83557", "--out", exports)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exports, "heat_drive_83557.xlsx"))
}

func TestScrapeFromWorkbook(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.baseDir, "dump.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Driver", "Zoe"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Kart", "9"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"1", "44.500"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out, err := run(t, newCLI(), "--config", e.configFile, "scrape", "-t", "premium", "-s", "77", "--from-xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "heat premium/77: 1 drivers, 1 laps")
	assert.Contains(t, out, "Zoe")
	assert.FileExists(t, filepath.Join(e.baseDir, "data", "heats_data", "heat_premium_77.json"))
}

func TestShowMissingHeat(t *testing.T) {
	e := newEnv(t)

	_, err := run(t, newCLI(), "--config", e.configFile, "show", "-t", "drive", "-s", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))
}

func TestFlagValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown track", []string{"scrape", "-t", "monza", "-s", "1"}},
		{"bad session", []string{"scrape", "-t", "drive", "-s", "../x"}},
		{"missing session", []string{"scrape", "-t", "drive"}},
		{"show needs a source", []string{"show"}},
		{"bad format", []string{"export", "-s", "1", "--format", "png"}},
		{"missing sessions", []string{"batch"}},
		{"show non-json file", []string{"show", "--file", "heat.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, newCLI(), append([]string{"--config", e.configFile}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestBatch(t *testing.T) {
	e := newEnv(t)

	out, err := run(t, newCLI(), "--config", e.configFile, "batch", "-t", "drive", "--sessions", "83557,404", "--workers", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 sessions failed")
	assert.Contains(t, out, "83557")
	assert.Contains(t, out, "2 drivers, 2 laps")
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "failed")
}

func TestBatchWithInjectedFetcher(t *testing.T) {
	e := newEnv(t)
	fetcher := new(services.MockFetcher)
	rows := domain.RawTable{
		{"Driver", "Cat"},
		{"Kart", "3"},
		{"1", "39.000"},
	}
	fetcher.On("Fetch", mock.Anything, domain.TrackPremium, "10").Return(rows, nil)
	fetcher.On("Fetch", mock.Anything, domain.TrackPremium, "11").Return(rows, nil)

	c := newCLI()
	c.opts = []app.Option{app.WithFetcher(fetcher)}
	out, err := run(t, c, "--config", e.configFile, "batch", "-t", "premium", "--sessions", "10, 11")
	require.NoError(t, err)
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "11")
	fetcher.AssertExpectations(t)
}

func TestTracks(t *testing.T) {
	e := newEnv(t)

	out, err := run(t, newCLI(), "--config", e.configFile, "tracks")
	require.NoError(t, err)
	assert.Equal(t, "narvskaya (default)\npremium\ndrive\n", out)
}

func TestLogLevelOverride(t *testing.T) {
	e := newEnv(t)
	c := newCLI()

	_, err := run(t, c, "--config", e.configFile, "--log-level", "DEBUG", "tracks")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", c.cfg.Logging.Level)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, newCLI(), "--config", filepath.Join(t.TempDir(), "nope.yaml"), "tracks")
	assert.Error(t, err)
}
