package annotate

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benedoc-inc/docdiff/core/extract"
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/core/structure"
	"github.com/benedoc-inc/docdiff/types"
)

const (
	defaultPlaceholderWidth  = "150px"
	defaultPlaceholderHeight = "100px"
)

// images marks changed images of this side and inserts a placeholder where only
// the other side has one. own holds this side's image units in document order.
func (a *annotator) images(own []types.ComparableUnit, changes []structure.ImageChange) {
	var last *html.Node
	for _, ch := range changes {
		unit, other := a.pick(ch.Left, ch.Right)
		if unit != nil {
			if el := a.mapping[unit.Source]; el != nil {
				parse.AddClass(el, "git-image-"+string(ch.Status))
				parse.SetAttr(el, "data-change-type", string(ch.Status))
			}
			continue
		}
		if other == nil || other.Image == nil {
			continue
		}

		img := other.Image
		style := fmt.Sprintf("width: %s; height: %s;",
			cssLength(img.Width, defaultPlaceholderWidth), cssLength(img.Height, defaultPlaceholderHeight))
		ph := placeholder(ClassImagePlaceholder, ch.Status, placeholderTitle("Image", ch.Status), img.AltText, style)
		parse.SetAttr(ph, "data-change-type", string(ch.Status))

		a.insertAfter(a.anchor(own, ch.Ordinal, last), ph)
		last = ph
	}
}

// tables marks changed tables, rows and cells of this side and inserts a
// placeholder where only the other side has a table
func (a *annotator) tables(own []types.ComparableUnit, changes []structure.TableChange) error {
	var last *html.Node
	for _, ch := range changes {
		unit, other := a.pick(ch.Left, ch.Right)
		if unit == nil {
			if other == nil || other.Table == nil {
				continue
			}
			detail := fmt.Sprintf("%d rows × %d columns", other.Table.RowCount, other.Table.ColumnCount)
			ph := placeholder(ClassTablePlaceholder, ch.Status, placeholderTitle("Table", ch.Status), detail, "")
			a.insertAfter(a.anchor(own, ch.Ordinal, last), ph)
			last = ph
			continue
		}

		el := a.mapping[unit.Source]
		if el == nil {
			continue
		}
		parse.AddClass(el, "git-table-"+string(ch.Status))
		if ch.Status != structure.StatusModified {
			continue
		}

		rows := extract.TableRows(el)
		for _, c := range ch.CellChanges {
			if err := a.markCell(rows, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *annotator) markCell(rows [][]*html.Node, c types.CellChange) error {
	if c.Row >= len(rows) || c.Col >= len(rows[c.Row]) {
		// The change refers to a row or cell that only exists on the other side.
		return nil
	}
	cell := rows[c.Row][c.Col]

	switch c.Kind {
	case types.CellRowAdded:
		parse.AddClass(cell.Parent, ClassRowAdded)
		parse.AddClass(cell, ClassCellAdded)
	case types.CellRowRemoved:
		parse.AddClass(cell.Parent, ClassRowRemoved)
		parse.AddClass(cell, ClassCellRemoved)
	case types.CellAdded:
		parse.AddClass(cell, ClassCellAdded)
	case types.CellRemoved:
		parse.AddClass(cell, ClassCellRemoved)
	case types.CellModified:
		parse.AddClass(cell, ClassCellModified)
		if c.FormattingChanged {
			parse.SetAttr(cell, "data-formatting-changed", "true")
		}
		if c.ContentChanged {
			rendered := c.LeftHTML
			if a.side == inline.SideRight {
				rendered = c.RightHTML
			}
			// The inline diff covers text only; images in the cell are kept
			// after it.
			images := descendants(cell, atom.Img)
			if err := replaceChildren(cell, rendered); err != nil {
				return err
			}
			for _, img := range images {
				if img.Parent != nil {
					img.Parent.RemoveChild(img)
				}
				cell.AppendChild(img)
			}
		}
	}
	return nil
}

// descendants returns the elements below n with the given tag, in document order
func descendants(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == tag {
			out = append(out, c)
		}
		out = append(out, descendants(c, tag)...)
	}
	return out
}

// anchor finds the node a placeholder for ordinal goes after: this side's
// element one position earlier, else the previous placeholder.
func (a *annotator) anchor(own []types.ComparableUnit, ordinal int, last *html.Node) *html.Node {
	if last != nil {
		return last
	}
	if ordinal > 0 && ordinal-1 < len(own) {
		return a.mapping[own[ordinal-1].Source]
	}
	if len(own) > 0 {
		return a.mapping[own[len(own)-1].Source]
	}
	return nil
}

// cssLength turns a bare number into pixels and falls back to def when empty
func cssLength(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v + "px"
	}
	return v
}
