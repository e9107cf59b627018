// Package parse turns markup into a node tree and offers the small set of tree
// helpers the comparison needs (text content, cloning, re-serialisation).
package parse

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/benedoc-inc/docdiff/types"
)

// Document is one parsed side of a comparison
type Document struct {
	Markup string     // Original markup, kept for the unchanged fallback
	Root   *html.Node // Synthetic <div> container holding the parsed fragment
}

// Parser turns markup into a Document. The default is Parse; tests and callers
// with their own tree source can supply another implementation.
type Parser func(markup string) (*Document, error)

// Parse parses an HTML fragment the way a browser fills a <div> through innerHTML.
// Empty markup yields an empty container.
func Parse(markup string) (*Document, error) {
	root := newContainer()
	if markup == "" {
		return &Document{Markup: markup, Root: root}, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), newContainer())
	if err != nil {
		return nil, types.WrapError(types.ErrCodeParseFailure, "failed to parse markup", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{Markup: markup, Root: root}, nil
}

// ParseInline parses a rendered snippet (such as an inline diff) into detached
// nodes ready to be inserted into another tree.
func ParseInline(snippet string) ([]*html.Node, error) {
	if snippet == "" {
		return nil, nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(snippet), newContainer())
	if err != nil {
		return nil, types.WrapError(types.ErrCodeRenderFailure, "failed to parse rendered snippet", err)
	}
	return nodes, nil
}

func newContainer() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// TextContent returns the document's text content
func (d *Document) TextContent() string {
	if d == nil {
		return ""
	}
	return TextContent(d.Root)
}

// TextContent concatenates all descendant text nodes of n, like the DOM property
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode, html.DocumentNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// DirectText concatenates only the text node children of n
func DirectText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// Attr returns the value of attribute key on n, or "" when absent
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Clone deep-copies the tree under root. The returned map links every original
// node to its copy so callers can find the copy of a node they hold.
func Clone(root *html.Node) (*html.Node, map[*html.Node]*html.Node) {
	mapping := make(map[*html.Node]*html.Node)
	var clone func(*html.Node) *html.Node
	clone = func(n *html.Node) *html.Node {
		c := &html.Node{
			Type:      n.Type,
			DataAtom:  n.DataAtom,
			Data:      n.Data,
			Namespace: n.Namespace,
		}
		if len(n.Attr) > 0 {
			c.Attr = make([]html.Attribute, len(n.Attr))
			copy(c.Attr, n.Attr)
		}
		mapping[n] = c
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			c.AppendChild(clone(child))
		}
		return c
	}
	if root == nil {
		return nil, mapping
	}
	return clone(root), mapping
}

// RenderChildren serialises the children of n (the innerHTML of n)
func RenderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", types.WrapError(types.ErrCodeRenderFailure, "failed to render node", err)
		}
	}
	return buf.String(), nil
}
