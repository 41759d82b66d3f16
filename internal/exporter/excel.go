package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"kartlap/pkg/contracts/domain"
)

const (
	SheetResults = "results"
	SheetSummary = "summary"
)

// ExcelWriter exports heats as xlsx workbooks. The results sheet holds the
// full results grid; the summary sheet holds side info and stint info.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an ExcelWriter.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_writer"))}
}

// Extension implements HeatWriter.
func (e *ExcelWriter) Extension() string { return string(FormatXLSX) }

// ContentType implements HeatWriter.
func (e *ExcelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write implements HeatWriter.
func (e *ExcelWriter) Write(w io.Writer, heat *domain.Heat) error {
	f, err := e.build(heat)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile writes heat to path, creating parent directories.
func (e *ExcelWriter) WriteFile(path string, heat *domain.Heat) error {
	return writeFile(path, heat, e, e.logger)
}

type sheetStyles struct {
	header    int
	lapColumn int
	annotated int
}

func (e *ExcelWriter) build(heat *domain.Heat) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeResultsSheet(f, FullResults(heat), styles); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := append(heat.SideInfo(), []string{})
	summary = append(summary, heat.StintInfo()...)
	if err := writeRows(f, SheetSummary, summary); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F1F1F1"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.lapColumn, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8E8E8"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("lap column style: %w", err)
	}

	s.annotated, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"333333"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("annotation style: %w", err)
	}
	return s, nil
}

// writeResultsSheet styles the driver and kart rows as headers, the first
// column as lap numbers, and shades annotated lap cells.
func writeResultsSheet(f *excelize.File, rows [][]string, styles sheetStyles) error {
	if err := writeRows(f, SheetResults, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	width := len(rows[0])
	for r, row := range rows {
		for c, cell := range row {
			var style int
			switch {
			case r < 2:
				style = styles.header
			case c == 0:
				style = styles.lapColumn
			case isAnnotated(cell):
				style = styles.annotated
			default:
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetResults, name, name, style); err != nil {
				return fmt.Errorf("style %s: %w", name, err)
			}
		}
	}

	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}
	return f.SetColWidth(SheetResults, "A", last, 14)
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
