// Package structure compares tables and images between two documents. Both are
// aligned by ordinal: the n-th table on the left is compared with the n-th
// table on the right.
package structure

import (
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/types"
)

// Status classifies a structural change
type Status string

const (
	StatusAdded    Status = "added"
	StatusRemoved  Status = "removed"
	StatusModified Status = "modified"
)

// TableChange is the difference found at one table ordinal
type TableChange struct {
	Ordinal     int // 0-based position among the tables of the document
	Status      Status
	Left        *types.ComparableUnit // nil when added
	Right       *types.ComparableUnit // nil when removed
	CellChanges []types.CellChange
}

// TableComparison holds every changed table and the counts they contribute
type TableComparison struct {
	Changes []TableChange
	Summary types.ChangeSummary
}

// CompareTables compares table units by ordinal. Unchanged tables are omitted.
func CompareTables(left, right []types.ComparableUnit) TableComparison {
	var result TableComparison
	additions, deletions := 0, 0

	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(left):
			result.Changes = append(result.Changes, TableChange{Ordinal: i, Status: StatusAdded, Right: &right[i]})
			additions++
		case i >= len(right):
			result.Changes = append(result.Changes, TableChange{Ordinal: i, Status: StatusRemoved, Left: &left[i]})
			deletions++
		default:
			cells, add, del := compareGrids(left[i].Table, right[i].Table)
			if len(cells) == 0 {
				continue
			}
			result.Changes = append(result.Changes, TableChange{
				Ordinal:     i,
				Status:      StatusModified,
				Left:        &left[i],
				Right:       &right[i],
				CellChanges: cells,
			})
			additions += add
			deletions += del
		}
	}

	result.Summary = types.NewChangeSummary(additions, deletions)
	return result
}

// compareGrids walks both grids row by row, then cell by cell
func compareGrids(left, right *types.TableSnapshot) ([]types.CellChange, int, int) {
	var changes []types.CellChange
	additions, deletions := 0, 0

	leftRows, rightRows := rowCount(left), rowCount(right)
	for r := 0; r < max(leftRows, rightRows); r++ {
		if r >= leftRows {
			for c, cell := range right.Cells[r] {
				changes = append(changes, types.CellChange{
					Row: r, Col: c, Kind: types.CellRowAdded, RightContent: cell.Content,
				})
				additions++
			}
			continue
		}
		if r >= rightRows {
			for c, cell := range left.Cells[r] {
				changes = append(changes, types.CellChange{
					Row: r, Col: c, Kind: types.CellRowRemoved, LeftContent: cell.Content,
				})
				deletions++
			}
			continue
		}

		leftCols, rightCols := len(left.Cells[r]), len(right.Cells[r])
		for c := 0; c < max(leftCols, rightCols); c++ {
			lc, rc := left.Cell(r, c), right.Cell(r, c)
			switch {
			case lc == nil:
				changes = append(changes, types.CellChange{
					Row: r, Col: c, Kind: types.CellAdded, RightContent: rc.Content,
				})
				additions++
			case rc == nil:
				changes = append(changes, types.CellChange{
					Row: r, Col: c, Kind: types.CellRemoved, LeftContent: lc.Content,
				})
				deletions++
			default:
				change, ok := compareCells(r, c, lc, rc)
				if !ok {
					continue
				}
				changes = append(changes, change)
				additions++
				deletions++
			}
		}
	}
	return changes, additions, deletions
}

func compareCells(r, c int, left, right *types.CellSnapshot) (types.CellChange, bool) {
	contentChanged := left.Content != right.Content
	formattingChanged := !left.Formatting.Equal(right.Formatting)
	if !contentChanged && !formattingChanged {
		return types.CellChange{}, false
	}

	change := types.CellChange{
		Row:               r,
		Col:               c,
		Kind:              types.CellModified,
		ContentChanged:    contentChanged,
		FormattingChanged: formattingChanged,
		LeftContent:       left.Content,
		RightContent:      right.Content,
	}
	if formattingChanged {
		lf, rf := left.Formatting, right.Formatting
		change.LeftFormatting = &lf
		change.RightFormatting = &rf
	}
	if contentChanged {
		change.LeftHTML = inline.Render(left.Content, right.Content, inline.SideLeft)
		change.RightHTML = inline.Render(left.Content, right.Content, inline.SideRight)
	}
	return change, true
}

func rowCount(t *types.TableSnapshot) int {
	if t == nil {
		return 0
	}
	return len(t.Cells)
}
