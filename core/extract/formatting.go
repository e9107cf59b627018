package extract

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/types"
)

// ResolveFormatting reads the tracked style attributes of n.
//
// Only the element's own inline style and legacy presentational attributes are
// consulted; there is no stylesheet cascade. Bold, italic and underline also
// turn on when n itself or any descendant is a b/strong, i/em or u/ins element.
func ResolveFormatting(n *html.Node) types.FormattingSnapshot {
	var f types.FormattingSnapshot
	if n == nil || n.Type != html.ElementNode {
		return f
	}

	// Legacy attributes first so inline style overrides them.
	if align := parse.Attr(n, "align"); align != "" {
		f.TextAlign = strings.ToLower(align)
	}
	if n.DataAtom == atom.Font {
		f.Color = parse.Attr(n, "color")
		f.FontFamily = parse.Attr(n, "face")
		f.FontSize = parse.Attr(n, "size")
	}

	style := parse.Style(n)
	if v, ok := style["font-weight"]; ok {
		f.Bold = isBoldWeight(v)
	}
	if v, ok := style["font-style"]; ok {
		v = strings.ToLower(v)
		f.Italic = v == "italic" || strings.HasPrefix(v, "oblique")
	}
	for _, key := range []string{"text-decoration", "text-decoration-line"} {
		if v, ok := style[key]; ok && strings.Contains(strings.ToLower(v), "underline") {
			f.Underline = true
		}
	}
	if v := style["font-size"]; v != "" {
		f.FontSize = v
	}
	if v := style["color"]; v != "" {
		f.Color = v
	}
	if v := style["background-color"]; v != "" {
		f.BackgroundColor = v
	} else if v := style["background"]; v != "" {
		f.BackgroundColor = v
	}
	if v := style["font-family"]; v != "" {
		f.FontFamily = v
	}
	if v := style["text-align"]; v != "" {
		f.TextAlign = v
	}
	if v := style["line-height"]; v != "" {
		f.LineHeight = v
	}

	if !f.Bold {
		f.Bold = hasTag(n, atom.B, atom.Strong)
	}
	if !f.Italic {
		f.Italic = hasTag(n, atom.I, atom.Em)
	}
	if !f.Underline {
		f.Underline = hasTag(n, atom.U, atom.Ins)
	}
	return f
}

func isBoldWeight(v string) bool {
	switch strings.ToLower(v) {
	case "bold", "bolder":
		return true
	}
	weight, err := strconv.Atoi(v)
	return err == nil && weight >= 600
}

// hasTag reports whether n or any element below it is one of tags
func hasTag(n *html.Node, tags ...atom.Atom) bool {
	if n.Type == html.ElementNode {
		for _, t := range tags {
			if n.DataAtom == t {
				return true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasTag(c, tags...) {
			return true
		}
	}
	return false
}
