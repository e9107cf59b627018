// Package extract walks a parsed document and emits the ordered sequence of
// comparable units (text lines, blocks, breaks, images, tables).
package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/types"
)

// Granularity decides how text inside block elements is split into units
type Granularity string

const (
	// GranularityBlock emits one block unit per paragraph-like element; its direct
	// text nodes are not emitted a second time (default)
	GranularityBlock Granularity = "block"
	// GranularityMixed emits both the block unit and a text unit per line of every
	// text node, so block text is compared at two levels
	GranularityMixed Granularity = "mixed"
)

// Options configures extraction
type Options struct {
	Granularity      Granularity
	NormalizeUnicode bool // Apply NFC to text before it becomes unit content
}

// DefaultOptions returns the default extraction options
func DefaultOptions() Options {
	return Options{
		Granularity:      GranularityBlock,
		NormalizeUnicode: true,
	}
}

// skipped subtrees never contribute units
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Head:     true,
	atom.Noscript: true,
}

// blockElements emit a block unit from their direct text
var blockElements = map[atom.Atom]bool{
	atom.P:   true,
	atom.H1:  true,
	atom.H2:  true,
	atom.H3:  true,
	atom.H4:  true,
	atom.H5:  true,
	atom.H6:  true,
	atom.Li:  true,
	atom.Div: true,
}

// extractor holds the per-call state. The index counter lives here so that
// every call starts from 1 and concurrent calls never share it.
type extractor struct {
	opts  Options
	root  *html.Node
	index int
	units []types.ComparableUnit
}

// Extract walks root in document order and returns its comparable units
func Extract(root *html.Node, opts Options) ([]types.ComparableUnit, error) {
	if root == nil {
		return nil, types.NewDiffError(types.ErrCodeExtractionFailure, "document has no root node")
	}
	if root.Type != html.ElementNode && root.Type != html.DocumentNode {
		return nil, types.NewDiffErrorf(types.ErrCodeExtractionFailure, "unexpected root node type %d", root.Type).
			WithContext("node", root.Data)
	}
	if opts.Granularity == "" {
		opts.Granularity = GranularityBlock
	}

	e := &extractor{opts: opts, root: root}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
	return e.units, nil
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.visitText(n)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		switch {
		case n.DataAtom == atom.Br:
			e.emit(types.ComparableUnit{
				Kind:       types.UnitBreak,
				Tag:        n.Data,
				Whitespace: types.WhitespaceStats{LineBreaks: 1},
				Source:     n,
			})
			return
		case n.DataAtom == atom.Img:
			e.visitImage(n)
			return
		case n.DataAtom == atom.Table:
			table := TableData(n)
			e.emit(types.ComparableUnit{
				Kind:       types.UnitTable,
				Tag:        n.Data,
				RawContent: tableText(table),
				Formatting: ResolveFormatting(n),
				Table:      table,
				Source:     n,
			})
			// Cell text is compared structurally, not as lines. Images inside
			// cells keep their document-order place among the images.
			e.walkImages(n)
			return
		case blockElements[n.DataAtom]:
			e.visitBlock(n)
		}
	case html.DocumentNode:
	default:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

func (e *extractor) visitImage(n *html.Node) {
	img := ImageData(n)
	e.emit(types.ComparableUnit{
		Kind:       types.UnitImage,
		Tag:        n.Data,
		RawContent: img.Source,
		Image:      img,
		Source:     n,
	})
}

// walkImages emits only the images below n, nested tables included
func (e *extractor) walkImages(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || skipped[c.DataAtom] {
			continue
		}
		if c.DataAtom == atom.Img {
			e.visitImage(c)
			continue
		}
		e.walkImages(c)
	}
}

func (e *extractor) visitBlock(n *html.Node) {
	text := e.normalize(parse.DirectText(n))
	if strings.TrimSpace(text) == "" {
		return
	}
	e.emit(types.ComparableUnit{
		Kind:       types.UnitBlock,
		Tag:        n.Data,
		RawContent: text,
		Formatting: ResolveFormatting(n),
		Whitespace: types.AnalyzeWhitespace(text),
		Source:     n,
	})
}

func (e *extractor) visitText(n *html.Node) {
	if strings.TrimSpace(n.Data) == "" {
		return
	}
	parent := n.Parent
	if parent == e.root {
		// The synthetic container is not a document element.
		parent = nil
	}
	if e.opts.Granularity == GranularityBlock && coveredByBlock(parent) {
		return
	}

	var formatting types.FormattingSnapshot
	tag := ""
	if parent != nil && parent.Type == html.ElementNode {
		formatting = ResolveFormatting(parent)
		tag = parent.Data
	}

	lines := SplitLines(e.normalize(n.Data))
	for i, line := range lines {
		e.emit(types.ComparableUnit{
			Kind:       types.UnitText,
			Tag:        tag,
			Segment:    i,
			RawContent: line,
			Formatting: formatting,
			Whitespace: types.AnalyzeWhitespace(line),
			Source:     n,
		})
	}
}

// coveredByBlock reports whether the direct text of parent already became a block unit
func coveredByBlock(parent *html.Node) bool {
	if parent == nil || parent.Type != html.ElementNode || !blockElements[parent.DataAtom] {
		return false
	}
	return strings.TrimSpace(parse.DirectText(parent)) != ""
}

// SplitLines splits text on line breaks. A trailing blank segment is dropped so
// text ending in a newline does not produce a spurious blank line; other empty
// segments are kept.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (e *extractor) normalize(s string) string {
	if e.opts.NormalizeUnicode {
		return norm.NFC.String(s)
	}
	return s
}

func (e *extractor) emit(u types.ComparableUnit) {
	e.index++
	u.Index = e.index
	e.units = append(e.units, u)
}

// FilterKind returns the units of one kind, in order
func FilterKind(units []types.ComparableUnit, kind types.UnitKind) []types.ComparableUnit {
	var out []types.ComparableUnit
	for _, u := range units {
		if u.Kind == kind {
			out = append(out, u)
		}
	}
	return out
}
