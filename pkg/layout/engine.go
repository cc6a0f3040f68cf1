// Package layout turns a document tree into positioned boxes in two
// explicit passes. Resolve walks the tree top-down, resolving each
// node's style against its parent's, wrapping text and loading images.
// Arrange walks the resolved tree bottom-up to stack boxes in flow,
// then top-down to assign absolute coordinates.
package layout

import (
	"context"
	"fmt"

	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/images"
)

// LayoutEngine holds what style resolution needs from the outside.
type LayoutEngine struct {
	viewport struct {
		width    float64
		fontSize float64
	}
	fonts  FontSource
	images ImageSource
}

// NewLayoutEngine creates an engine for a canvas of the given width and
// root font size. images may be nil for documents without <img>.
func NewLayoutEngine(width, fontSize float64, fonts FontSource, imgs ImageSource) *LayoutEngine {
	le := &LayoutEngine{fonts: fonts, images: imgs}
	le.viewport.width = width
	le.viewport.fontSize = fontSize
	return le
}

// Layout runs both passes.
func (le *LayoutEngine) Layout(ctx context.Context, tree *dom.Tree) (*Layout, error) {
	styled, err := le.Resolve(ctx, tree)
	if err != nil {
		return nil, err
	}
	return Arrange(styled), nil
}

// Resolve is pass 1: resolve styles top-down, shape text and load
// images. It fails on the first invalid style or missing asset.
func (le *LayoutEngine) Resolve(ctx context.Context, tree *dom.Tree) (*Styled, error) {
	s := &Styled{
		tree:     tree,
		width:    le.viewport.width,
		fontSize: le.viewport.fontSize,
		nodes:    make([]styledNode, tree.Len()),
	}
	for i := range s.nodes {
		s.nodes[i].hidden = true
	}
	root := tree.Root()
	style, err := css.Resolve(tree.Node(root).Style, css.Viewport(le.viewport.width, le.viewport.fontSize), -1)
	if err != nil {
		return nil, fmt.Errorf("<template>: %w", err)
	}
	if style.Hidden() {
		return s, nil
	}
	s.nodes[root] = styledNode{style: style}
	if err := le.resolveChildren(ctx, s, root); err != nil {
		return nil, err
	}
	return s, nil
}

func (le *LayoutEngine) resolveChildren(ctx context.Context, s *Styled, parent dom.NodeID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tree := s.tree
	parentStyle := s.nodes[parent].style
	flow := 0
	for _, id := range tree.Children(parent) {
		n := tree.Node(id)
		if n.Kind != dom.Text && n.Style.Get(css.Display).Raw == "none" {
			continue
		}
		index := -1
		if n.Kind == dom.Text || n.Style.Get(css.Position).Raw != "absolute" {
			index = flow
			flow++
		}

		if n.Kind == dom.Text {
			sn, err := le.shapeText(n, parentStyle, index)
			if err != nil {
				return fmt.Errorf("text %q: %w", n.Text, err)
			}
			s.nodes[id] = sn
			continue
		}

		style, err := css.Resolve(n.Style, parentStyle, index)
		if err != nil {
			return fmt.Errorf("<%s>: %w", n.Tag, err)
		}
		sn := styledNode{style: style}
		if n.Kind == dom.Image {
			if err := le.loadImage(ctx, &sn, n); err != nil {
				return fmt.Errorf("<%s>: %w", n.Tag, err)
			}
		}
		s.nodes[id] = sn
		if err := le.resolveChildren(ctx, s, id); err != nil {
			return err
		}
	}
	return nil
}

// loadImage fetches the bitmap and scales it to the box width. Without
// a declared height the aspect ratio is kept.
func (le *LayoutEngine) loadImage(ctx context.Context, sn *styledNode, n *dom.Node) error {
	if le.images == nil {
		return fmt.Errorf("%w: no image loader", images.ErrMissingAsset)
	}
	src, _ := n.Value("src")
	img, err := le.images.Load(ctx, src)
	if err != nil {
		return err
	}
	height, hasHeight := sn.style.Height()
	sn.imageW, sn.imageH = images.Size(img, sn.style.Width(), height, hasHeight)
	sn.image = images.Scale(img, sn.imageW, sn.imageH)
	return nil
}
