// Package dom holds the document tree produced from a template. Nodes
// live in an arena owned by the Tree and refer to each other by
// NodeID, so there are no pointer cycles between parents and children.
package dom

import (
	"fmt"

	"github.com/Drelf2018/vue2img/pkg/css"
)

// NodeID indexes a node in its Tree.
type NodeID int

// None is the parent of the root.
const None NodeID = -1

type Kind int

const (
	Root Kind = iota
	Element
	Text
	Image
)

var kindNames = [...]string{"root", "element", "text", "image"}

func (k Kind) String() string { return kindNames[k] }

// Node is one document node. Style is the cascaded sheet for element,
// image and root nodes; text nodes leave it empty and take their
// style from the parent.
type Node struct {
	Kind     Kind
	Tag      string
	Text     string
	Attrs    map[string]string
	Bindings map[string]any
	Style    css.Sheet

	parent   NodeID
	children []NodeID
}

// Attr returns a static attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Value returns a bound attribute if present, otherwise the static
// attribute of the same name.
func (n *Node) Value(name string) (any, bool) {
	if v, ok := n.Bindings[name]; ok {
		return v, true
	}
	if v, ok := n.Attrs[name]; ok {
		return v, true
	}
	return nil, false
}

// Tree is an arena of nodes. Node 0 is always the root.
type Tree struct {
	nodes []Node
}

// New returns a tree holding only a root node with the given style.
func New(style css.Sheet) *Tree {
	return &Tree{nodes: []Node{{Kind: Root, Tag: "template", Style: style, parent: None}}}
}

// Root returns the root's id.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id. The pointer is valid until
// the next Append.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Append adds n as the last child of parent and returns its id.
func (t *Tree) Append(parent NodeID, n Node) NodeID {
	if parent < 0 || int(parent) >= len(t.nodes) {
		panic(fmt.Sprintf("dom: append to unknown node %d", parent))
	}
	id := NodeID(len(t.nodes))
	n.parent = parent
	n.children = nil
	t.nodes = append(t.nodes, n)
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Parent returns the parent of id, or None for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the children of id in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.nodes[id].children...)
}

// Walk visits the subtree at id in pre-order. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].children {
		t.walk(c, depth+1, fn)
	}
}

// Sources returns every image source in document order.
func (t *Tree) Sources() []any {
	var out []any
	t.Walk(t.Root(), func(id NodeID, _ int) bool {
		n := t.Node(id)
		if n.Kind == Image {
			if v, ok := n.Value("src"); ok {
				out = append(out, v)
			}
		}
		return true
	})
	return out
}
