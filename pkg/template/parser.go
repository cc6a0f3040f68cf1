// Package template turns template markup into a document tree. The
// markup holds <style> blocks and one <template> element whose
// contents may use :attr bindings, {{ }} interpolation and
// v-if / v-else-if / v-else conditional groups.
package template

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/expr"
)

var (
	// ErrUnsupportedDirective is returned for directives the renderer
	// does not implement, such as v-for.
	ErrUnsupportedDirective = errors.New("unsupported directive")
	// ErrMalformedTemplate is returned for markup without a <template>
	// element or with a dangling v-else.
	ErrMalformedTemplate = errors.New("malformed template")
)

// Document is a parsed template.
type Document struct {
	Tree       *dom.Tree
	Stylesheet *css.Stylesheet
}

// Parser builds a Document. A Parser is used for a single document.
type Parser struct {
	scope  *expr.Scope
	styles *css.Stylesheet
	tree   *dom.Tree
}

// Parse parses text, evaluating directives in scope. A nil scope
// evaluates every identifier as undefined.
func Parse(text string, scope *expr.Scope) (*Document, error) {
	if scope == nil {
		var err error
		if scope, err = expr.New(nil); err != nil {
			return nil, err
		}
	}
	p := &Parser{scope: scope}
	return p.parse(text)
}

func (p *Parser) parse(text string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}

	var styleText strings.Builder
	var tmpl *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "style":
				styleText.WriteString(textContent(n))
				styleText.WriteByte('\n')
				return
			case "template":
				if tmpl == nil {
					tmpl = n
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: no <template> element", ErrMalformedTemplate)
	}

	if p.styles, err = css.ParseStylesheet(styleText.String()); err != nil {
		return nil, err
	}
	rootStyle, err := css.Cascade(tmpl, p.styles)
	if err != nil {
		return nil, err
	}
	p.tree = dom.New(rootStyle)
	if err := p.children(p.tree.Root(), tmpl); err != nil {
		return nil, err
	}
	return &Document{Tree: p.tree, Stylesheet: p.styles}, nil
}

// children materializes the children of n under parent, resolving
// conditional groups along the way.
func (p *Parser) children(parent dom.NodeID, n *html.Node) error {
	var inGroup, matched bool
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := strings.Join(strings.Fields(c.Data), " ")
			if text == "" {
				continue
			}
			inGroup = false
			text, err := p.scope.Interpolate(text)
			if err != nil {
				return err
			}
			if text != "" {
				p.tree.Append(parent, dom.Node{Kind: dom.Text, Text: text})
			}
		case html.ElementNode:
			if c.Data == "style" || c.Data == "script" {
				continue
			}
			if _, ok := attr(c, "v-for"); ok {
				return fmt.Errorf("%w: v-for on <%s>", ErrUnsupportedDirective, c.Data)
			}
			include := true
			if cond, ok := attr(c, "v-if"); ok {
				ok, err := p.scope.Truthy(cond)
				if err != nil {
					return err
				}
				inGroup, matched, include = true, ok, ok
			} else if cond, ok := attr(c, "v-else-if"); ok {
				if !inGroup {
					return fmt.Errorf("%w: v-else-if without v-if on <%s>", ErrMalformedTemplate, c.Data)
				}
				include = false
				if !matched {
					ok, err := p.scope.Truthy(cond)
					if err != nil {
						return err
					}
					matched, include = ok, ok
				}
			} else if _, ok := attr(c, "v-else"); ok {
				if !inGroup {
					return fmt.Errorf("%w: v-else without v-if on <%s>", ErrMalformedTemplate, c.Data)
				}
				include, inGroup = !matched, false
			} else {
				inGroup = false
			}
			if !include {
				continue
			}
			id, err := p.element(parent, c)
			if err != nil {
				return err
			}
			if err := p.children(id, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// element appends the element c with its bindings and cascaded style.
func (p *Parser) element(parent dom.NodeID, c *html.Node) (dom.NodeID, error) {
	node := dom.Node{Kind: dom.Element, Tag: c.Data, Attrs: map[string]string{}, Bindings: map[string]any{}}
	if c.Data == "img" {
		node.Kind = dom.Image
	}
	for _, a := range c.Attr {
		name, bound := bindingName(a.Key)
		switch {
		case strings.HasPrefix(a.Key, "v-"):
		case bound:
			v, err := p.scope.Eval(a.Val)
			if err != nil {
				return 0, fmt.Errorf("<%s %s>: %w", c.Data, a.Key, err)
			}
			node.Bindings[name] = v
		default:
			node.Attrs[a.Key] = a.Val
		}
	}
	style, err := css.Cascade(c, p.styles)
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", c.Data, err)
	}
	if s, ok := node.Bindings["style"].(string); ok {
		inline, err := css.ParseInlineStyle(s)
		if err != nil {
			return 0, fmt.Errorf("<%s>: %w", c.Data, err)
		}
		style = css.Merge(style, inline)
	}
	node.Style = style
	return p.tree.Append(parent, node), nil
}

// bindingName strips the ":" or "v-bind:" prefix.
func bindingName(key string) (string, bool) {
	if name, ok := strings.CutPrefix(key, "v-bind:"); ok {
		return name, true
	}
	if name, ok := strings.CutPrefix(key, ":"); ok {
		return name, true
	}
	return key, false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
