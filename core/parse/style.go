package parse

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseStyle splits an inline style attribute into lower-cased property names
// and trimmed values. Later declarations win, as in CSS.
func ParseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if name == "" || value == "" {
			continue
		}
		props[name] = collapseSpaces(value)
	}
	return props
}

// Style returns the parsed inline style of n
func Style(n *html.Node) map[string]string {
	return ParseStyle(Attr(n, "style"))
}

// AddClass appends a class name to n's class attribute if it is not already there
func AddClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, existing := range strings.Fields(a.Val) {
				if existing == class {
					return
				}
			}
			n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// SetAttr sets or replaces attribute key on n
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
