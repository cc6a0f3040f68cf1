package layout

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/Drelf2018/vue2img/pkg/dom"
)

// Dump renders the box tree, one line per box with its content
// rectangle.
func (l *Layout) Dump() string {
	tree := treeprint.NewWithRoot(label(l.Root))
	var add func(treeprint.Tree, *Box)
	add = func(t treeprint.Tree, b *Box) {
		for _, c := range b.Children {
			if len(c.Children) == 0 {
				t.AddNode(label(c))
				continue
			}
			add(t.AddBranch(label(c)), c)
		}
	}
	add(tree, l.Root)
	return tree.String()
}

func label(b *Box) string {
	var name string
	switch b.Kind {
	case dom.Text:
		var parts []string
		for _, line := range b.Lines {
			parts = append(parts, line.Text)
		}
		name = fmt.Sprintf("%q", strings.Join(parts, "⏎"))
	case dom.Root:
		name = "<template>"
	default:
		name = "<" + b.Tag + ">"
	}
	return fmt.Sprintf("%s (%g,%g) %gx%g", name, b.X, b.Y, b.Width, b.Height)
}
