// Package validation checks the files and directories the CLI reads heats
// from and writes exports to.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxHeatFileSize bounds heat JSON files accepted by ValidateHeatFile.
const MaxHeatFileSize = 8 << 20

// FileValidator validates CLI file arguments.
type FileValidator struct {
	maxSize int64
	logger  *slog.Logger
}

// NewFileValidator creates a validator with MaxHeatFileSize.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		maxSize: MaxHeatFileSize,
		logger:  logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateHeatFile checks that path is a readable .json file no larger than
// the size limit.
func (v *FileValidator) ValidateHeatFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return fmt.Errorf("heat file %s must have a .json extension", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		v.logger.Warn("Heat file does not exist", slog.String("file", path))
		return fmt.Errorf("heat file %s does not exist: %w", path, err)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a heat file", path)
	}
	if info.Size() > v.maxSize {
		v.logger.Warn("Heat file too large",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", v.maxSize))
		return fmt.Errorf("heat file %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), v.maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("heat file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("Heat file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir if needed and checks that it accepts
// new files.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".kartlap-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	_ = os.Remove(name)
	return nil
}
