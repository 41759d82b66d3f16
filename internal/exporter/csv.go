package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"kartlap/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter exports heats as CSV
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// Extension implements HeatWriter.
func (c *CSVWriter) Extension() string { return string(FormatCSV) }

// ContentType implements HeatWriter.
func (c *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Write writes the full results of heat, a blank row, then the side info
// and stint info rows. Output starts with a UTF-8 BOM so Excel picks the
// right encoding.
func (c *CSVWriter) Write(w io.Writer, heat *domain.Heat) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writeRecords(writer, FullResults(heat)); err != nil {
		return err
	}

	for _, block := range [][][]string{heat.SideInfo(), heat.StintInfo()} {
		if len(block) == 0 {
			continue
		}
		if err := writer.Write([]string{}); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
		if err := writeRecords(writer, block); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes heat to path, creating parent directories.
func (c *CSVWriter) WriteFile(path string, heat *domain.Heat) error {
	return writeFile(path, heat, c, c.logger)
}

func writeRecords(writer *csv.Writer, rows [][]string) error {
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// writeFile is shared by the file based writers.
func writeFile(path string, heat *domain.Heat, hw HeatWriter, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := hw.Write(buf, heat); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	logger.Info("Heat exported",
		slog.String("file_path", path),
		slog.String("session_id", heat.SessionID),
		slog.String("format", hw.Extension()))
	return file.Close()
}
