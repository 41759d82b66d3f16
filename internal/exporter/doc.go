// Package exporter renders heats for people: console tables, CSV files with
// a UTF-8 BOM for Excel, and styled xlsx workbooks.
//
// All writers start from FullResults, which stacks the driver row, the kart
// row and the lap table into one rectangular grid.
//
// Example usage:
//
//	w, err := exporter.ForFormat(exporter.FormatXLSX, logger)
//	if err != nil {
//		return err
//	}
//	err = w.Write(out, heat)
package exporter
