package scraper

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	apperrors "kartlap/internal/errors"
	"kartlap/pkg/contracts/domain"
)

// RowsFromHTML returns every table row of the document in order. Each row
// holds the normalized text of its th and td cells.
func RowsFromHTML(r io.Reader) (domain.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("read heat page", err)
	}

	rows := domain.RawTable{}
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		row := []string{}
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, domain.NormalizeCell(cell.Text()))
		})
		rows = append(rows, row)
	})
	return rows, nil
}
