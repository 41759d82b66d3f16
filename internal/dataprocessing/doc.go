// Package dataprocessing turns the flattened rows of a heat timing page into
// a domain.Heat.
//
// # Extraction
//
// The rows come from every table on the page, in document order, and are
// ragged: the driver header, the kart row, the lap block, the summary rows
// and the stint block all have different widths. Extraction works in three
// steps:
//
//  1. LocateMarker finds the first row whose first cell equals a label
//     ("Driver", "Kart", "Best", "S1 kart", ...).
//  2. ExtractLapTable slices the rows between "Kart" and the first
//     terminating marker, keeps rows whose first cell is a lap number and
//     pads or truncates them to the driver header width.
//  3. HeatParser zips the driver and kart rows into drivers and hands each
//     driver the cells of its lap column.
//
// A page without "Driver" or "Kart" rows produces an empty heat, not an
// error.
//
// # Workbooks
//
// ReadWorkbookRows reads the same row shape from a spreadsheet, so a saved
// page dump can be parsed offline:
//
//	rows, err := dataprocessing.ReadWorkbookRows("heat_83557.xlsx", "")
//	if err != nil {
//	    return err
//	}
//	heat := dataprocessing.NewHeatParser(logger).Parse(ctx, "83557", domain.TrackNarvskaya, rows)
package dataprocessing
