package template

import (
	"errors"
	"testing"

	"github.com/Drelf2018/vue2img/pkg/css"
	"github.com/Drelf2018/vue2img/pkg/dom"
	"github.com/Drelf2018/vue2img/pkg/expr"
)

func parse(t *testing.T, text string, data map[string]any) *Document {
	t.Helper()
	scope, err := expr.New(data)
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	doc, err := Parse(text, scope)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

// tags lists the tags (or text) of the children of id.
func tags(tree *dom.Tree, id dom.NodeID) []string {
	var out []string
	for _, c := range tree.Children(id) {
		n := tree.Node(c)
		if n.Kind == dom.Text {
			out = append(out, "#"+n.Text)
		} else {
			out = append(out, n.Tag)
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse_Structure(t *testing.T) {
	doc := parse(t, `
<style>.box { width: 100px; }</style>
<template style="padding: 4px">
  <div class="box">
    hello   world
    <img src="a.png">
  </div>
</template>`, nil)

	tree := doc.Tree
	if got := tree.Node(tree.Root()).Kind; got != dom.Root {
		t.Fatalf("root kind = %v", got)
	}
	if got := tree.Node(tree.Root()).Style.Get(css.Padding).Raw; got != "4px" {
		t.Errorf("root padding = %q", got)
	}
	kids := tree.Children(tree.Root())
	if len(kids) != 1 {
		t.Fatalf("expected 1 child, got %v", tags(tree, tree.Root()))
	}
	box := tree.Node(kids[0])
	if box.Style.Get(css.Width).Raw != "100px" {
		t.Errorf("expected width 100px from .box, got %q", box.Style.Get(css.Width).Raw)
	}
	if got := tags(tree, kids[0]); !equal(got, []string{"#hello world", "img"}) {
		t.Errorf("children = %v", got)
	}
	img := tree.Node(tree.Children(kids[0])[1])
	if img.Kind != dom.Image {
		t.Errorf("img kind = %v", img.Kind)
	}
}

func TestParse_Conditionals(t *testing.T) {
	const text = `<template>
  <p v-if="n > 5">big</p>
  <p v-else-if="n > 1">mid</p>
  <p v-else>small</p>
  <span v-if="show">shown</span>
  <b>always</b>
</template>`
	tests := []struct {
		data map[string]any
		want []string
	}{
		{map[string]any{"n": 9, "show": false}, []string{"#big", "#always"}},
		{map[string]any{"n": 3, "show": true}, []string{"#mid", "#shown", "#always"}},
		{map[string]any{"n": 0}, []string{"#small", "#always"}},
	}
	for _, tt := range tests {
		doc := parse(t, text, tt.data)
		var got []string
		for _, c := range doc.Tree.Children(doc.Tree.Root()) {
			got = append(got, tags(doc.Tree, c)...)
		}
		if !equal(got, tt.want) {
			t.Errorf("data %v: got %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestParse_NoElseNoMatch(t *testing.T) {
	doc := parse(t, `<template><i v-if="a">x</i><i v-else-if="b">y</i></template>`, nil)
	if n := len(doc.Tree.Children(doc.Tree.Root())); n != 0 {
		t.Errorf("expected empty group, got %d nodes", n)
	}
}

func TestParse_BindingsAndInterpolation(t *testing.T) {
	doc := parse(t, `<template><div :title="user.name" :style="'width: ' + w + 'px'" id="x">Hi {{ user.name }}{{ nope }}</div></template>`,
		map[string]any{"user": map[string]any{"name": "Ann"}, "w": 40})

	tree := doc.Tree
	div := tree.Node(tree.Children(tree.Root())[0])
	if v, _ := div.Value("title"); v != "Ann" {
		t.Errorf("title binding = %v", v)
	}
	if v, _ := div.Attr("id"); v != "x" {
		t.Errorf("id = %q", v)
	}
	if got := div.Style.Get(css.Width).Raw; got != "40px" {
		t.Errorf("bound style width = %q", got)
	}
	if got := tags(tree, tree.Children(tree.Root())[0]); !equal(got, []string{"#Hi Ann"}) {
		t.Errorf("text = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{`<div>no template</div>`, ErrMalformedTemplate},
		{`<template><p v-for="i in items">x</p></template>`, ErrUnsupportedDirective},
		{`<template><p v-else>x</p></template>`, ErrMalformedTemplate},
		{`<template><p>a</p><p v-else-if="x">b</p></template>`, ErrMalformedTemplate},
		{`<style>p { border: 1px; }</style><template></template>`, css.ErrUnsupportedProperty},
	}
	for _, tt := range tests {
		_, err := Parse(tt.text, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.want)
		}
	}
}
