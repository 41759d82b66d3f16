package dataprocessing

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"kartlap/pkg/contracts/domain"
)

// ReadWorkbookRows loads every row of sheet as a RawTable with normalized
// cells. An empty sheet name selects the active sheet.
func ReadWorkbookRows(path, sheet string) (domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	table := make(domain.RawTable, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = domain.NormalizeCell(cell)
		}
		table = append(table, cells)
	}
	return table, nil
}
