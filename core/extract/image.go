package extract

import (
	"golang.org/x/net/html"

	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/types"
)

// ImageData builds the attribute snapshot of an img element.
// Width and height come from the attribute, falling back to the inline style.
func ImageData(img *html.Node) *types.ImageSnapshot {
	style := parse.Style(img)
	dim := func(key string) string {
		if v := parse.Attr(img, key); v != "" {
			return v
		}
		return style[key]
	}
	return &types.ImageSnapshot{
		Source:      parse.Attr(img, "src"),
		AltText:     parse.Attr(img, "alt"),
		Width:       dim("width"),
		Height:      dim("height"),
		Title:       parse.Attr(img, "title"),
		CSSClass:    parse.Attr(img, "class"),
		InlineStyle: parse.Attr(img, "style"),
	}
}
