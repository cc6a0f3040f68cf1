package css

import (
	"fmt"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/Drelf2018/vue2img/pkg/units"
)

// Sheet is the full attribute map of one style source. Properties not
// declared by the source hold their initial attribute. A Sheet is a
// value: every method that changes it returns a copy.
type Sheet struct {
	attrs    [numProperties]Attribute
	declared [numProperties]bool
}

// NewSheet returns a sheet with every property at its initial value.
func NewSheet() Sheet {
	var s Sheet
	for p := Property(0); p < numProperties; p++ {
		s.attrs[p] = Initial(p)
	}
	return s
}

// Get returns the attribute for p.
func (s Sheet) Get(p Property) Attribute { return s.attrs[p] }

// Declared reports whether p was set explicitly.
func (s Sheet) Declared(p Property) bool { return s.declared[p] }

// With returns a copy of s with a declared.
func (s Sheet) With(a Attribute) Sheet {
	s.attrs[a.Property] = a
	s.declared[a.Property] = true
	return s
}

// Set parses name: raw and returns a copy of s with it declared.
func (s Sheet) Set(name, raw string) (Sheet, error) {
	p, err := LookupProperty(name)
	if err != nil {
		return s, err
	}
	if emptyValue(raw) {
		return s, fmt.Errorf("%w: empty value for %s", units.ErrInvalidExpression, p)
	}
	return s.With(NewAttribute(p, raw)), nil
}

func emptyValue(raw string) bool {
	return strings.TrimSpace(strings.ReplaceAll(raw, importantMarker, "")) == ""
}

// declare adds a parsed declaration to s.
func declare(s Sheet, d *dcss.Declaration) (Sheet, error) {
	p, err := LookupProperty(d.Property)
	if err != nil {
		return s, err
	}
	if emptyValue(d.Value) {
		return s, fmt.Errorf("%w: empty value for %s", units.ErrInvalidExpression, p)
	}
	a := NewAttribute(p, d.Value)
	a.Important = a.Important || d.Important
	return s.With(a), nil
}

// MustSheet builds a sheet from name/value pairs and panics on an
// unknown property. Used for built-in tag defaults and tests.
func MustSheet(pairs ...string) Sheet {
	s := NewSheet()
	for i := 0; i+1 < len(pairs); i += 2 {
		var err error
		if s, err = s.Set(pairs[i], pairs[i+1]); err != nil {
			panic(err)
		}
	}
	return s
}

// ParseInlineStyle parses the body of a style="" attribute. The final
// declaration may omit its semicolon.
func ParseInlineStyle(text string) (Sheet, error) {
	s := NewSheet()
	text = strings.TrimSpace(text)
	if text == "" {
		return s, nil
	}
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return s, fmt.Errorf("parse inline style %q: %w", text, err)
	}
	for _, d := range decls {
		if s, err = declare(s, d); err != nil {
			return s, fmt.Errorf("inline style: %w", err)
		}
	}
	return s, nil
}

// Merge combines sheets in increasing precedence order into a new
// sheet. A later declaration replaces an earlier one unless the earlier
// is !important and the later is not. Inputs are not modified.
func Merge(sheets ...Sheet) Sheet {
	out := NewSheet()
	for _, s := range sheets {
		for p := Property(0); p < numProperties; p++ {
			if !s.declared[p] {
				continue
			}
			if out.declared[p] && out.attrs[p].Important && !s.attrs[p].Important {
				continue
			}
			out.attrs[p] = s.attrs[p]
			out.declared[p] = true
		}
	}
	return out
}

// String formats the declared properties as CSS declarations.
func (s Sheet) String() string {
	var b strings.Builder
	for p := Property(0); p < numProperties; p++ {
		if !s.declared[p] {
			continue
		}
		a := s.attrs[p]
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s", p, a.Raw)
		if a.Important {
			b.WriteString(" " + importantMarker)
		}
		b.WriteByte(';')
	}
	return b.String()
}
