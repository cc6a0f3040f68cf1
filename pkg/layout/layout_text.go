package layout

import (
	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/text"
)

// shapeText resolves an empty sheet for a text node, so it inherits
// its parent's colour and font, and wraps the text to the resulting
// width: the parent's column, or its grid track.
func (le *LayoutEngine) shapeText(n *dom.Node, parent *css.Resolved, index int) (styledNode, error) {
	style, err := css.Resolve(css.NewSheet(), parent, index)
	if err != nil {
		return styledNode{}, err
	}
	m, err := le.fonts.Measurer(style.FontFamily(), style.FontSize())
	if err != nil {
		return styledNode{}, err
	}
	block := text.Wrap(n.Text, m, style.Width())
	return styledNode{style: style, block: &block}, nil
}
