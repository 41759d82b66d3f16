package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"kartlap/pkg/contracts/domain"
)

// Format names an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX}
}

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// HeatWriter writes one heat in a single file format.
type HeatWriter interface {
	Write(w io.Writer, heat *domain.Heat) error
	Extension() string
	ContentType() string
}

// ForFormat returns the writer for format.
func ForFormat(format Format, logger *slog.Logger) (HeatWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(logger), nil
	case FormatXLSX:
		return NewExcelWriter(logger), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
