package inline

import (
	"strings"

	"golang.org/x/net/html"
)

// Side selects which document a rendering is for
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Class names shared with the annotated document renderer
const (
	ClassAdded       = "git-inline-added"
	ClassRemoved     = "git-inline-removed"
	ClassPlaceholder = "git-inline-placeholder"
	ClassSpace       = "whitespace-space"
	ClassTab         = "whitespace-tab"
	ClassNewline     = "whitespace-newline"
)

const (
	markerStyle      = "background: rgba(0,0,0,0.1); border-radius: 2px;"
	insertPlaceStyle = "color: #22c55e; font-style: italic; opacity: 0.7; background: #f0fdf4; padding: 1px 3px; border-radius: 2px;"
	deletePlaceStyle = "color: #ef4444; font-style: italic; opacity: 0.7; background: #fef2f2; padding: 1px 3px; border-radius: 2px;"
)

var whitespaceMarkers = strings.NewReplacer(
	" ", `<span class="`+ClassSpace+`" style="`+markerStyle+`">·</span>`,
	"\t", `<span class="`+ClassTab+`" style="`+markerStyle+`">→</span>`,
	"\n", `<span class="`+ClassNewline+`" style="`+markerStyle+`">↵</span><br>`,
)

// MarkWhitespace escapes text and then replaces each space, tab and line break
// with a visible marker. Escaping comes first so literal markup in the text
// can never turn into tags.
func MarkWhitespace(text string) string {
	return whitespaceMarkers.Replace(html.EscapeString(text))
}

// Render renders the semantic diff of a and b for one side.
//
// On the right, insertions are live added markup and deletions become a dimmed
// "[-…]" placeholder; the left is the mirror image with "[+…]" placeholders.
func Render(a, b string, side Side) string {
	return RenderSegments(SemanticDiff(a, b), side)
}

// RenderSegments renders already computed segments for one side
func RenderSegments(segments []Segment, side Side) string {
	var sb strings.Builder
	for _, s := range segments {
		marked := MarkWhitespace(s.Text)
		switch s.Op {
		case OpEqual:
			sb.WriteString(marked)
		case OpInsert:
			if side == SideRight {
				writeSpan(&sb, ClassAdded, "", marked)
			} else {
				writeSpan(&sb, ClassPlaceholder, insertPlaceStyle, "[+"+marked+"]")
			}
		case OpDelete:
			if side == SideLeft {
				writeSpan(&sb, ClassRemoved, "", marked)
			} else {
				writeSpan(&sb, ClassPlaceholder, deletePlaceStyle, "[-"+marked+"]")
			}
		}
	}
	return sb.String()
}

// RenderCombined renders a single view holding both deletions and insertions,
// used for the line report.
func RenderCombined(a, b string) string {
	var sb strings.Builder
	for _, s := range SemanticDiff(a, b) {
		marked := MarkWhitespace(s.Text)
		switch s.Op {
		case OpInsert:
			writeSpan(&sb, ClassAdded, "", marked)
		case OpDelete:
			writeSpan(&sb, ClassRemoved, "", marked)
		default:
			sb.WriteString(marked)
		}
	}
	return sb.String()
}

// RenderWhole renders text that exists on one side only, wrapped in the
// added or removed class.
func RenderWhole(text string, added bool) string {
	var sb strings.Builder
	class := ClassRemoved
	if added {
		class = ClassAdded
	}
	writeSpan(&sb, class, "", MarkWhitespace(text))
	return sb.String()
}

func writeSpan(sb *strings.Builder, class, style, inner string) {
	sb.WriteString(`<span class="`)
	sb.WriteString(class)
	sb.WriteString(`"`)
	if style != "" {
		sb.WriteString(` style="`)
		sb.WriteString(style)
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	sb.WriteString(inner)
	sb.WriteString("</span>")
}
