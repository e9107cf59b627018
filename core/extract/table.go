package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/types"
)

// TableRows returns the rows of table in order together with their cells.
// Rows are tr children of the table or of its thead/tbody/tfoot sections, so
// rows of nested tables are never included.
func TableRows(table *html.Node) [][]*html.Node {
	var rows [][]*html.Node
	addRow := func(tr *html.Node) {
		var cells []*html.Node
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, c)
			}
		}
		rows = append(rows, cells)
	}

	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			addRow(c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					addRow(r)
				}
			}
		}
	}
	return rows
}

// TableData builds the grid snapshot of a table element
func TableData(table *html.Node) *types.TableSnapshot {
	rows := TableRows(table)
	snap := &types.TableSnapshot{
		RowCount: len(rows),
		Cells:    make([][]types.CellSnapshot, len(rows)),
	}
	if len(rows) > 0 {
		snap.ColumnCount = len(rows[0])
	}

	for r, cells := range rows {
		snap.Cells[r] = make([]types.CellSnapshot, len(cells))
		for c, cell := range cells {
			snap.Cells[r][c] = types.CellSnapshot{
				Content:    strings.TrimSpace(parse.TextContent(cell)),
				Formatting: ResolveFormatting(cell),
				ColSpan:    span(cell, "colspan"),
				RowSpan:    span(cell, "rowspan"),
			}
		}
	}
	return snap
}

func span(cell *html.Node, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(parse.Attr(cell, key)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// tableText flattens a grid to tab-separated cells and newline-separated rows
func tableText(t *types.TableSnapshot) string {
	if t == nil {
		return ""
	}
	lines := make([]string, len(t.Cells))
	for r, row := range t.Cells {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = cell.Content
		}
		lines[r] = strings.Join(cells, "\t")
	}
	return strings.Join(lines, "\n")
}
