package css

import (
	"golang.org/x/net/html"
)

// User agent defaults, applied before any author rule.
var tagDefaults = map[string]Sheet{
	"p":  MustSheet("margin", "1em 0px"),
	"h1": MustSheet("font-size", "2em", "margin", "0.67em 0px"),
	"h2": MustSheet("font-size", "1.5em", "margin", "0.83em 0px"),
	"h3": MustSheet("font-size", "1.17em", "margin", "1em 0px"),
}

// TagDefault returns the user agent sheet for tag, or an empty sheet.
func TagDefault(tag string) Sheet {
	if s, ok := tagDefaults[tag]; ok {
		return s
	}
	return NewSheet()
}

// Cascade computes the merged sheet for an element: tag default, then
// matching rules by specificity, then the inline style attribute.
func Cascade(n *html.Node, ss *Stylesheet) (Sheet, error) {
	sources := []Sheet{TagDefault(n.Data)}
	if ss != nil {
		sources = append(sources, ss.Match(n)...)
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			inline, err := ParseInlineStyle(a.Val)
			if err != nil {
				return Sheet{}, err
			}
			sources = append(sources, inline)
		}
	}
	return Merge(sources...), nil
}
