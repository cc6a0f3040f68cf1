package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drelf2018/vue2img/pkg/css"
)

func TestAppendAndNavigate(t *testing.T) {
	tree := New(css.NewSheet())
	div := tree.Append(tree.Root(), Node{Kind: Element, Tag: "div"})
	text := tree.Append(div, Node{Kind: Text, Text: "hello"})
	img := tree.Append(tree.Root(), Node{Kind: Image, Tag: "img", Attrs: map[string]string{"src": "a.png"}})

	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, None, tree.Parent(tree.Root()))
	assert.Equal(t, div, tree.Parent(text))
	assert.Equal(t, []NodeID{div, img}, tree.Children(tree.Root()))
	assert.Equal(t, "hello", tree.Node(text).Text)
}

func TestChildrenIsACopy(t *testing.T) {
	tree := New(css.NewSheet())
	a := tree.Append(tree.Root(), Node{Kind: Element})
	kids := tree.Children(tree.Root())
	kids[0] = 99
	assert.Equal(t, []NodeID{a}, tree.Children(tree.Root()))
}

func TestWalk_PreOrderAndSkip(t *testing.T) {
	tree := New(css.NewSheet())
	a := tree.Append(tree.Root(), Node{Kind: Element, Tag: "a"})
	tree.Append(a, Node{Kind: Element, Tag: "a1"})
	b := tree.Append(tree.Root(), Node{Kind: Element, Tag: "b"})
	tree.Append(b, Node{Kind: Element, Tag: "b1"})

	var seen []string
	tree.Walk(tree.Root(), func(id NodeID, depth int) bool {
		seen = append(seen, tree.Node(id).Tag)
		return tree.Node(id).Tag != "b"
	})
	assert.Equal(t, []string{"template", "a", "a1", "b"}, seen)
}

func TestValue_BindingWins(t *testing.T) {
	n := Node{Attrs: map[string]string{"src": "static.png"}, Bindings: map[string]any{"src": 42}}
	v, ok := n.Value("src")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = n.Value("alt")
	assert.False(t, ok)
}

func TestSources(t *testing.T) {
	tree := New(css.NewSheet())
	d := tree.Append(tree.Root(), Node{Kind: Element})
	tree.Append(d, Node{Kind: Image, Attrs: map[string]string{"src": "x.png"}})
	tree.Append(tree.Root(), Node{Kind: Image, Bindings: map[string]any{"src": "https://e/y.png"}})
	tree.Append(tree.Root(), Node{Kind: Image})
	assert.Equal(t, []any{"x.png", "https://e/y.png"}, tree.Sources())
}
