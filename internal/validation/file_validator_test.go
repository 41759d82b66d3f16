package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestValidateHeatFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "heat_drive_1.json")
	require.NoError(t, os.WriteFile(good, []byte(`{}`), 0644))
	txt := filepath.Join(dir, "heat.txt")
	require.NoError(t, os.WriteFile(txt, []byte(`{}`), 0644))
	subdir := filepath.Join(dir, "nested.json")
	require.NoError(t, os.Mkdir(subdir, 0755))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid", good, ""},
		{"wrong extension", txt, ".json extension"},
		{"missing", filepath.Join(dir, "none.json"), "does not exist"},
		{"directory", subdir, "is a directory"},
	}
	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateHeatFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateHeatFileSizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))

	v := newValidator()
	v.maxSize = 16
	err := v.ValidateHeatFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 16")
}

func TestValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, newValidator().ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidateOutputDirectoryOverFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.Error(t, newValidator().ValidateOutputDirectory(file))
}
