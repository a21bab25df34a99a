package scraper

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

// maxColspan caps colspan attributes so a malformed page cannot blow up a row.
const maxColspan = 64

var errParse = errors.New("parsing HTML")

// ParseTables reads every <table> in the document, in document order.
//
// Column names come from the <thead> row, or from the first row made only of <th>
// cells. A cell spanning n columns is repeated n times. Cells without text are null.
// Tables without a header get positional names "0", "1", ...
func ParseTables(r io.Reader) ([]draw.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tables := make([]draw.RawTable, 0)
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		// Tables nested in a cell are part of that cell.
		if sel.ParentsFiltered("table").Length() > 0 {
			return
		}
		tables = append(tables, parseTable(sel))
	})
	return tables, nil
}

func parseTable(table *goquery.Selection) draw.RawTable {
	var t draw.RawTable
	headerFound := false

	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})

	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() == 0 {
			return
		}

		inHead := tr.ParentsFiltered("thead").Length() > 0
		allHeader := cells.Filter("td").Length() == 0
		if !headerFound && (inHead || allHeader) {
			cells.Each(func(_ int, c *goquery.Selection) {
				name := cellText(c)
				for i := 0; i < colspan(c); i++ {
					t.Columns = append(t.Columns, name)
				}
			})
			headerFound = true
			return
		}
		if inHead {
			return
		}

		row := make(draw.RawRow, 0, len(t.Columns))
		cells.Each(func(_ int, c *goquery.Selection) {
			cell := draw.Null
			if text := cellText(c); text != "" {
				cell = draw.Str(text)
			}
			for i := 0; i < colspan(c); i++ {
				row = append(row, cell)
			}
		})
		t.Rows = append(t.Rows, row)
	})

	if !headerFound {
		width := 0
		for _, row := range t.Rows {
			width = max(width, len(row))
		}
		for i := 0; i < width; i++ {
			t.Columns = append(t.Columns, strconv.Itoa(i))
		}
	}
	return t
}

// cellText joins the cell's text nodes with single spaces, so numbers rendered as
// separate elements ("<li>1</li><li>2</li>") stay separate tokens.
func cellText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, strings.Fields(n.Data)...)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func colspan(sel *goquery.Selection) int {
	v, ok := sel.Attr("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxColspan)
}
