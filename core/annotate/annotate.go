// Package annotate renders one side of a comparison as markup with change
// classes applied. It works on a deep copy of the parsed tree; the document it
// is given is never modified.
package annotate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/extract"
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/core/structure"
	"github.com/benedoc-inc/docdiff/types"
)

// Class names applied to changed elements
const (
	ClassLineAdded    = "git-line-added"
	ClassLineRemoved  = "git-line-removed"
	ClassLineModified = "git-line-modified"

	ClassImagePlaceholder = "image-placeholder"
	ClassTablePlaceholder = "table-placeholder"

	ClassRowAdded     = "git-row-added"
	ClassRowRemoved   = "git-row-removed"
	ClassCellAdded    = "git-cell-added"
	ClassCellRemoved  = "git-cell-removed"
	ClassCellModified = "git-cell-modified"
)

// Input is everything needed to annotate one side
type Input struct {
	Side    inline.Side
	Doc     *parse.Document
	Units   []types.ComparableUnit // Units extracted from Doc
	Records []align.Record
	Tables  []structure.TableChange
	Images  []structure.ImageChange
}

type annotator struct {
	side    inline.Side
	root    *html.Node
	mapping map[*html.Node]*html.Node
}

// Render returns the annotated markup of one side
func Render(in Input) (string, error) {
	if in.Doc == nil || in.Doc.Root == nil {
		return "", types.NewDiffError(types.ErrCodeRenderFailure, "no document to annotate").
			WithContext("side", in.Side.String())
	}

	root, mapping := parse.Clone(in.Doc.Root)
	a := &annotator{side: in.Side, root: root, mapping: mapping}

	if err := a.lines(in.Records); err != nil {
		return "", err
	}
	a.images(extract.FilterKind(in.Units, types.UnitImage), in.Images)
	if err := a.tables(extract.FilterKind(in.Units, types.UnitTable), in.Tables); err != nil {
		return "", err
	}

	out, err := parse.RenderChildren(root)
	if err != nil {
		return "", err
	}
	return out, nil
}

// lineMark is one record seen from the side being rendered
type lineMark struct {
	kind  align.Kind
	unit  *types.ComparableUnit
	other *types.ComparableUnit
}

func (a *annotator) pick(left, right *types.ComparableUnit) (own, other *types.ComparableUnit) {
	if a.side == inline.SideRight {
		return right, left
	}
	return left, right
}

func (a *annotator) lines(records []align.Record) error {
	textMarks := make(map[*html.Node][]lineMark)
	var textNodes []*html.Node
	var elementMarks []lineMark

	for _, r := range records {
		own, other := a.pick(r.Left, r.Right)
		if own == nil || !own.Kind.IsLine() || own.Source == nil {
			continue
		}
		m := lineMark{kind: r.Kind, unit: own, other: other}
		if own.Kind == types.UnitText {
			if _, ok := textMarks[own.Source]; !ok {
				textNodes = append(textNodes, own.Source)
			}
			textMarks[own.Source] = append(textMarks[own.Source], m)
			continue
		}
		elementMarks = append(elementMarks, m)
	}

	for _, src := range textNodes {
		if err := a.markText(src, textMarks[src]); err != nil {
			return err
		}
	}
	for _, m := range elementMarks {
		if err := a.markElement(m, textMarks); err != nil {
			return err
		}
	}
	return nil
}

// markText rebuilds a text node whose lines changed, wrapping each changed line
func (a *annotator) markText(src *html.Node, marks []lineMark) error {
	changed := false
	for _, m := range marks {
		if m.kind != align.KindEqual {
			changed = true
		}
	}
	node := a.mapping[src]
	if !changed || node == nil || node.Parent == nil {
		return nil
	}

	sort.Slice(marks, func(i, j int) bool { return marks[i].unit.Segment < marks[j].unit.Segment })

	// Lines are read back from the source text so unchanged lines keep their
	// code points when extraction normalised them.
	lines := strings.Split(src.Data, "\n")
	var sb strings.Builder
	for i, m := range marks {
		if i > 0 {
			sb.WriteString("\n")
		}
		original := m.unit.RawContent
		if m.unit.Segment < len(lines) {
			original = lines[m.unit.Segment]
		}
		sb.WriteString(a.renderLine(m, original))
	}
	if len(lines) > len(marks) {
		sb.WriteString(html.EscapeString("\n" + strings.Join(lines[len(marks):], "\n")))
	}

	return a.replace(node.Parent, []*html.Node{node}, sb.String())
}

// renderLine renders one line of a text node; original is the line as it
// appears in the source
func (a *annotator) renderLine(m lineMark, original string) string {
	switch m.kind {
	case align.KindAdded:
		return wrap(ClassLineAdded, m.unit.Index, nil, html.EscapeString(original))
	case align.KindRemoved:
		return wrap(ClassLineRemoved, m.unit.Index, nil, html.EscapeString(original))
	case align.KindModified:
		left, right := a.pair(m)
		return wrap(ClassLineModified, m.unit.Index, changeAttrs(m), inline.Render(left.RawContent, right.RawContent, a.side))
	default:
		return html.EscapeString(original)
	}
}

// pair returns the units of a modified mark in left, right order
func (a *annotator) pair(m lineMark) (*types.ComparableUnit, *types.ComparableUnit) {
	if a.side == inline.SideRight {
		return m.other, m.unit
	}
	return m.unit, m.other
}

func changeAttrs(m lineMark) []html.Attribute {
	var attrs []html.Attribute
	if m.other == nil {
		return attrs
	}
	if !m.unit.Formatting.Equal(m.other.Formatting) {
		attrs = append(attrs, html.Attribute{Key: "data-formatting-changed", Val: "true"})
	}
	if !m.unit.Whitespace.Equal(m.other.Whitespace) {
		attrs = append(attrs, html.Attribute{Key: "data-whitespace-changed", Val: "true"})
	}
	return attrs
}

func wrap(class string, index int, attrs []html.Attribute, inner string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<span class="%s" data-line-index="%d"`, class, index)
	for _, attr := range attrs {
		fmt.Fprintf(&sb, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
	}
	sb.WriteString(">")
	sb.WriteString(inner)
	sb.WriteString("</span>")
	return sb.String()
}

// markElement annotates block and break units in place
func (a *annotator) markElement(m lineMark, textMarks map[*html.Node][]lineMark) error {
	if m.kind == align.KindEqual {
		return nil
	}
	el := a.mapping[m.unit.Source]
	if el == nil {
		return nil
	}

	switch m.kind {
	case align.KindAdded:
		parse.AddClass(el, ClassLineAdded)
	case align.KindRemoved:
		parse.AddClass(el, ClassLineRemoved)
	case align.KindModified:
		parse.AddClass(el, ClassLineModified)
	}
	parse.SetAttr(el, "data-line-index", strconv.Itoa(m.unit.Index))
	if m.kind != align.KindModified {
		return nil
	}

	for _, attr := range changeAttrs(m) {
		parse.SetAttr(el, attr.Key, attr.Val)
	}
	if m.unit.Kind != types.UnitBlock || m.other == nil || m.unit.RawContent == m.other.RawContent {
		return nil
	}

	// Replace the block's direct text with the inline diff, unless its text
	// nodes were already annotated line by line.
	var direct []*html.Node
	for c := m.unit.Source.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if _, ok := textMarks[c]; ok {
			return nil
		}
		if clone := a.mapping[c]; clone != nil {
			direct = append(direct, clone)
		}
	}
	if len(direct) == 0 {
		return nil
	}
	left, right := a.pair(m)
	return a.replace(el, direct, inline.Render(left.RawContent, right.RawContent, a.side))
}

// replace parses snippet and puts its nodes where old[0] was, removing all of old
func (a *annotator) replace(parent *html.Node, old []*html.Node, snippet string) error {
	nodes, err := parse.ParseInline(snippet)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old[0])
	}
	for _, o := range old {
		parent.RemoveChild(o)
	}
	return nil
}

// replaceChildren swaps all children of n for the parsed snippet
func replaceChildren(n *html.Node, snippet string) error {
	nodes, err := parse.ParseInline(snippet)
	if err != nil {
		return err
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// insertAfter places n after anchor, or at the end of the document when anchor is nil
func (a *annotator) insertAfter(anchor, n *html.Node) {
	if anchor == nil || anchor.Parent == nil {
		a.root.AppendChild(n)
		return
	}
	anchor.Parent.InsertBefore(n, anchor.NextSibling)
}

func element(tag atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag.String(), DataAtom: tag}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// placeholder builds the box shown where the other side has an image or table
func placeholder(class string, status structure.Status, title, detail, style string) *html.Node {
	div := element(atom.Div)
	parse.SetAttr(div, "class", class+" placeholder-"+string(status))
	if style != "" {
		parse.SetAttr(div, "style", style)
	}
	div.AppendChild(text(title))
	if detail != "" {
		div.AppendChild(element(atom.Br))
		small := element(atom.Small)
		small.AppendChild(text(detail))
		div.AppendChild(small)
	}
	return div
}

func placeholderTitle(kind string, status structure.Status) string {
	if status == structure.StatusAdded {
		return kind + " Added"
	}
	return kind + " Removed"
}
