package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kartlap/pkg/contracts/domain"
)

// Paths contains the resolved, absolute application directories
type Paths struct {
	BaseDir    string
	DataDir    string
	HeatsDir   string
	ExportsDir string
	LogsDir    string
}

// NewPaths resolves cfg against its base directory. An empty BaseDir means
// the current working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(cfg.DataDir, DefaultDataDir),
		HeatsDir:   resolve(cfg.HeatsDir, DefaultHeatsDir),
		ExportsDir: resolve(cfg.ExportsDir, DefaultExportsDir),
		LogsDir:    resolve(cfg.LogsDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.HeatsDir, p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// HeatFile returns the record path of a heat.
func (p *Paths) HeatFile(track domain.Track, sessionID string) string {
	return filepath.Join(p.HeatsDir, HeatFileName(track, sessionID, "json"))
}

// HeatFileName is the file name shared by records and exports,
// heat_<track>_<session>.<ext>.
func HeatFileName(track domain.Track, sessionID, ext string) string {
	return fmt.Sprintf("heat_%s_%s.%s", track, sessionID, ext)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.Group("paths",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("heats", p.HeatsDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		),
	)
}
