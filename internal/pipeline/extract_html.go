package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fabdesk/internal"
)

// ExtractInvoicesFromHTML handles order exports saved from web portals:
// every <table> is flattened to a cell grid and fed through the same
// header-detection and grouping as the xlsx path.
func ExtractInvoicesFromHTML(html string) ([]internal.RawInvoice, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := []internal.RawInvoice{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		grid := [][]string{}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			if len(cells) > 0 {
				grid = append(grid, cells)
			}
		})
		out = append(out, invoicesFromGrid(internal.SourceHTMLTable, grid)...)
	})

	return out, nil
}
