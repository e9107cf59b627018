package types

import (
	"strings"

	"golang.org/x/net/html"
)

// UnitKind classifies a comparable unit
type UnitKind string

const (
	UnitText  UnitKind = "text"  // One line of a text node
	UnitBlock UnitKind = "block" // Direct text of a paragraph-like element
	UnitBreak UnitKind = "break" // <br>
	UnitImage UnitKind = "image" // <img>
	UnitTable UnitKind = "table" // <table>
)

// IsLine reports whether units of this kind are reported as lines.
// Images and tables are reported structurally instead.
func (k UnitKind) IsLine() bool {
	return k == UnitText || k == UnitBlock || k == UnitBreak
}

// ComparableUnit is the minimal piece of a document that takes part in alignment.
// Units are created once by the extractor and never modified afterwards.
type ComparableUnit struct {
	Index      int                `json:"index"` // 1-based document-order position within one side
	Kind       UnitKind           `json:"kind"`
	RawContent string             `json:"raw_content"`
	Tag        string             `json:"tag,omitempty"`     // Element name the unit came from
	Segment    int                `json:"segment,omitempty"` // Line number within a split text node
	Formatting FormattingSnapshot `json:"formatting"`
	Whitespace WhitespaceStats    `json:"whitespace"`
	Table      *TableSnapshot     `json:"table,omitempty"`
	Image      *ImageSnapshot     `json:"image,omitempty"`

	// Source is the node the unit was read from. It is only used to locate the
	// unit again when rendering annotations and is never written through.
	Source *html.Node `json:"-"`
}

// FormattingSnapshot is the resolved style attribute set of a unit
type FormattingSnapshot struct {
	Bold            bool   `json:"bold"`
	Italic          bool   `json:"italic"`
	Underline       bool   `json:"underline"`
	FontSize        string `json:"font_size,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	FontFamily      string `json:"font_family,omitempty"`
	TextAlign       string `json:"text_align,omitempty"`
	LineHeight      string `json:"line_height,omitempty"`
}

// Equal compares two snapshots attribute by attribute
func (f FormattingSnapshot) Equal(other FormattingSnapshot) bool {
	return f == other
}

// WhitespaceStats counts whitespace characters in a unit's raw content
type WhitespaceStats struct {
	Spaces     int `json:"spaces"`
	Tabs       int `json:"tabs"`
	LineBreaks int `json:"line_breaks"`
}

// Equal compares two whitespace counts
func (w WhitespaceStats) Equal(other WhitespaceStats) bool {
	return w == other
}

// AnalyzeWhitespace derives whitespace counts from text
func AnalyzeWhitespace(text string) WhitespaceStats {
	return WhitespaceStats{
		Spaces:     strings.Count(text, " "),
		Tabs:       strings.Count(text, "\t"),
		LineBreaks: strings.Count(text, "\n"),
	}
}

// TableSnapshot captures the row/cell grid of a table
type TableSnapshot struct {
	RowCount    int              `json:"row_count"`
	ColumnCount int              `json:"column_count"` // Cell count of the first row
	Cells       [][]CellSnapshot `json:"cells"`
}

// CellSnapshot captures one table cell
type CellSnapshot struct {
	Content    string             `json:"content"` // Trimmed text content
	Formatting FormattingSnapshot `json:"formatting"`
	ColSpan    int                `json:"colspan"`
	RowSpan    int                `json:"rowspan"`
}

// Cell returns the cell at row r, column c, or nil if the grid has no such cell
func (t *TableSnapshot) Cell(r, c int) *CellSnapshot {
	if t == nil || r < 0 || r >= len(t.Cells) || c < 0 || c >= len(t.Cells[r]) {
		return nil
	}
	return &t.Cells[r][c]
}

// CellChangeKind classifies a table cell change
type CellChangeKind string

const (
	CellRowAdded   CellChangeKind = "row-added"
	CellRowRemoved CellChangeKind = "row-removed"
	CellAdded      CellChangeKind = "cell-added"
	CellRemoved    CellChangeKind = "cell-removed"
	CellModified   CellChangeKind = "cell-modified"
)

// CellChange describes a difference at one grid position (0-based)
type CellChange struct {
	Row               int                 `json:"row"`
	Col               int                 `json:"col"`
	Kind              CellChangeKind      `json:"type"`
	ContentChanged    bool                `json:"content_changed,omitempty"`
	FormattingChanged bool                `json:"formatting_changed,omitempty"`
	LeftContent       string              `json:"left_content,omitempty"`
	RightContent      string              `json:"right_content,omitempty"`
	LeftFormatting    *FormattingSnapshot `json:"left_formatting,omitempty"`
	RightFormatting   *FormattingSnapshot `json:"right_formatting,omitempty"`
	LeftHTML          string              `json:"left_html,omitempty"`  // Inline diff rendering for the left cell
	RightHTML         string              `json:"right_html,omitempty"` // Inline diff rendering for the right cell
}

// ImageSnapshot captures the comparable attributes of an image
type ImageSnapshot struct {
	Source      string `json:"src"`
	AltText     string `json:"alt,omitempty"`
	Width       string `json:"width,omitempty"`
	Height      string `json:"height,omitempty"`
	Title       string `json:"title,omitempty"`
	CSSClass    string `json:"class_name,omitempty"`
	InlineStyle string `json:"style,omitempty"`
}

// ChangeSummary counts additions and deletions. Changes is always derived.
type ChangeSummary struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Changes   int `json:"changes"`
}

// NewChangeSummary builds a summary from addition and deletion counts
func NewChangeSummary(additions, deletions int) ChangeSummary {
	return ChangeSummary{
		Additions: additions,
		Deletions: deletions,
		Changes:   additions + deletions,
	}
}

// Add returns the sum of two summaries
func (s ChangeSummary) Add(other ChangeSummary) ChangeSummary {
	return NewChangeSummary(s.Additions+other.Additions, s.Deletions+other.Deletions)
}
