package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/core/structure"
	"github.com/benedoc-inc/docdiff/types"
)

// ChangeStatus classifies a row of the detailed report
type ChangeStatus string

const (
	StatusAdded          ChangeStatus = "ADDED"
	StatusRemoved        ChangeStatus = "REMOVED"
	StatusModified       ChangeStatus = "MODIFIED"
	StatusUnchanged      ChangeStatus = "UNCHANGED"
	StatusFormattingOnly ChangeStatus = "FORMATTING-ONLY"
)

// LineRow is one line of the detailed report. An index is 0 when the line does
// not exist on that side.
type LineRow struct {
	LeftIndex          int            `json:"left_index"`
	RightIndex         int            `json:"right_index"`
	Kind               types.UnitKind `json:"kind"`
	Status             ChangeStatus   `json:"status"`
	LeftContent        string         `json:"left_content,omitempty"`
	RightContent       string         `json:"right_content,omitempty"`
	RenderedInlineDiff string         `json:"rendered_inline_diff"`
	FormatChanges      []string       `json:"format_changes,omitempty"`
	WhitespaceChanges  []string       `json:"whitespace_changes,omitempty"`
	ContentChanged     bool           `json:"content_changed"`
	FormattingChanged  bool           `json:"formatting_changed"`
	WhitespaceChanged  bool           `json:"whitespace_changed"`
}

// buildLineRows turns the line-kind records into report rows in document
// order and counts their additions and deletions
func buildLineRows(records []align.Record) ([]LineRow, types.ChangeSummary) {
	// Right index of every matched left unit, for placing removed rows
	matchedRight := make(map[int]int)
	for _, r := range records {
		if r.Left != nil && r.Right != nil {
			matchedRight[r.Left.Index] = r.Right.Index
		}
	}

	type keyedRow struct {
		anchor, sub, left int
		row               LineRow
	}
	var keyed []keyedRow
	additions, deletions := 0, 0

	for _, r := range records {
		unit := r.Left
		if unit == nil {
			unit = r.Right
		}
		if !unit.Kind.IsLine() {
			continue
		}

		row := lineRow(r)
		switch row.Status {
		case StatusAdded:
			additions++
		case StatusRemoved:
			deletions++
		case StatusUnchanged:
		default:
			additions++
			deletions++
		}

		k := keyedRow{row: row}
		if r.Right != nil {
			k.anchor = r.Right.Index
			k.left = row.LeftIndex
		} else {
			k.anchor = precedingMatch(matchedRight, r.Left.Index)
			k.sub = 1
			k.left = r.Left.Index
		}
		keyed = append(keyed, k)
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.anchor != b.anchor {
			return a.anchor < b.anchor
		}
		if a.sub != b.sub {
			return a.sub < b.sub
		}
		return a.left < b.left
	})

	rows := make([]LineRow, len(keyed))
	for i, k := range keyed {
		rows[i] = k.row
	}
	return rows, types.NewChangeSummary(additions, deletions)
}

// precedingMatch returns the right index of the nearest left unit before
// leftIndex that has a partner, or 0 when there is none
func precedingMatch(matchedRight map[int]int, leftIndex int) int {
	for i := leftIndex - 1; i > 0; i-- {
		if right, ok := matchedRight[i]; ok {
			return right
		}
	}
	return 0
}

func lineRow(r align.Record) LineRow {
	var row LineRow
	switch r.Kind {
	case align.KindAdded:
		row.RightIndex = r.Right.Index
		row.Kind = r.Right.Kind
		row.Status = StatusAdded
		row.RightContent = r.Right.RawContent
		row.RenderedInlineDiff = inline.RenderWhole(r.Right.RawContent, true)
		row.FormatChanges = []string{"Line added"}
		row.ContentChanged = true
		return row
	case align.KindRemoved:
		row.LeftIndex = r.Left.Index
		row.Kind = r.Left.Kind
		row.Status = StatusRemoved
		row.LeftContent = r.Left.RawContent
		row.RenderedInlineDiff = inline.RenderWhole(r.Left.RawContent, false)
		row.FormatChanges = []string{"Line removed"}
		row.ContentChanged = true
		return row
	}

	left, right := r.Left, r.Right
	row.LeftIndex = left.Index
	row.RightIndex = right.Index
	row.Kind = left.Kind
	row.LeftContent = left.RawContent
	row.RightContent = right.RawContent
	row.RenderedInlineDiff = inline.RenderCombined(left.RawContent, right.RawContent)

	if r.Kind == align.KindEqual {
		row.Status = StatusUnchanged
		return row
	}

	row.ContentChanged = strings.TrimSpace(left.RawContent) != strings.TrimSpace(right.RawContent)
	row.FormatChanges = describeFormatChanges(left.Formatting, right.Formatting)
	row.FormattingChanged = !left.Formatting.Equal(right.Formatting)
	row.WhitespaceChanges = describeWhitespaceChanges(left.Whitespace, right.Whitespace)
	row.WhitespaceChanged = len(row.WhitespaceChanges) > 0

	switch {
	case row.ContentChanged:
		row.Status = StatusModified
	case row.FormattingChanged:
		row.Status = StatusFormattingOnly
	default:
		// Whitespace at the ends of the unit, or a unit that moved
		row.Status = StatusModified
	}
	return row
}

// describeFormatChanges lists the changed attributes in a fixed order:
// bold, italic, underline, font size, color, font family
func describeFormatChanges(a, b types.FormattingSnapshot) []string {
	var out []string
	flag := func(name string, x, y bool) {
		if x != y {
			out = append(out, fmt.Sprintf("%s: %s → %s", name, onOff(x), onOff(y)))
		}
	}
	value := func(name, x, y string) {
		if x != y {
			out = append(out, fmt.Sprintf("%s: %s → %s", name, orDefault(x), orDefault(y)))
		}
	}
	flag("Bold", a.Bold, b.Bold)
	flag("Italic", a.Italic, b.Italic)
	flag("Underline", a.Underline, b.Underline)
	value("Font Size", a.FontSize, b.FontSize)
	value("Color", a.Color, b.Color)
	value("Font", a.FontFamily, b.FontFamily)
	return out
}

func describeWhitespaceChanges(a, b types.WhitespaceStats) []string {
	var out []string
	count := func(name string, x, y int) {
		if x != y {
			out = append(out, fmt.Sprintf("%s: %d → %d", name, x, y))
		}
	}
	count("Spaces", a.Spaces, b.Spaces)
	count("Tabs", a.Tabs, b.Tabs)
	count("Line breaks", a.LineBreaks, b.LineBreaks)
	return out
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func orDefault(v string) string {
	if v == "" {
		return "default"
	}
	return v
}

func tableReports(c structure.TableComparison) []TableReport {
	reports := make([]TableReport, 0, len(c.Changes))
	for _, ch := range c.Changes {
		report := TableReport{
			TableOrdinal: ch.Ordinal + 1,
			Status:       statusOf(ch.Status),
			CellChanges:  ch.CellChanges,
		}
		snap := ch.Right
		if snap == nil {
			snap = ch.Left
		}
		if snap != nil && snap.Table != nil {
			report.RowCount = snap.Table.RowCount
			report.ColumnCount = snap.Table.ColumnCount
		}
		reports = append(reports, report)
	}
	return reports
}

func imageReports(c structure.ImageComparison) []ImageReport {
	reports := make([]ImageReport, 0, len(c.Changes))
	for _, ch := range c.Changes {
		report := ImageReport{
			ImageOrdinal: ch.Ordinal + 1,
			Status:       statusOf(ch.Status),
		}
		if ch.Left != nil {
			report.LeftImage = ch.Left.Image
		}
		if ch.Right != nil {
			report.RightImage = ch.Right.Image
		}
		reports = append(reports, report)
	}
	return reports
}

func statusOf(s structure.Status) ChangeStatus {
	switch s {
	case structure.StatusAdded:
		return StatusAdded
	case structure.StatusRemoved:
		return StatusRemoved
	default:
		return StatusModified
	}
}
