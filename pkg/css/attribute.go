package css

import (
	"strings"
)

// InheritKeyword defers a property to its parent's resolved value.
const InheritKeyword = "inherit"

const importantMarker = "!important"

// Attribute is one declared style property: the raw text, the
// !important flag and the sub-expressions completed to the property's
// arity. Attributes are immutable values; resolving one produces a
// Value without changing the Attribute.
type Attribute struct {
	Property  Property
	Raw       string
	Important bool
	pieces    []string
}

// NewAttribute parses raw for property p. The keyword "initial" yields
// the property default, which is "inherit" for inherited properties.
func NewAttribute(p Property, raw string) Attribute {
	important := strings.Contains(raw, importantMarker)
	raw = strings.TrimSpace(strings.ReplaceAll(raw, importantMarker, ""))
	return newAttribute(p, raw, important)
}

func newAttribute(p Property, raw string, important bool) Attribute {
	if raw == "initial" || raw == "" && p.Initial() != "" {
		if p.Inherited() {
			raw = InheritKeyword
		} else {
			raw = p.Initial()
		}
	}
	return Attribute{
		Property:  p,
		Raw:       raw,
		Important: important,
		pieces:    complete(p.Kind(), raw),
	}
}

// Initial returns the default attribute for p.
func Initial(p Property) Attribute {
	return newAttribute(p, "initial", false)
}

// Inherits reports whether the attribute takes its parent's resolved value.
func (a Attribute) Inherits() bool {
	return a.Raw == InheritKeyword
}

// Pieces returns the completed sub-expressions.
func (a Attribute) Pieces() []string {
	return append([]string(nil), a.pieces...)
}

// Equal reports whether the raw value is one of values.
func (a Attribute) Equal(values ...string) bool {
	for _, v := range values {
		if a.Raw == v {
			return true
		}
	}
	return false
}

// Transform resolves the attribute against ctx. The caller is
// responsible for filling every input listed by a.Property.Inputs().
func (a Attribute) Transform(ctx Context) (Value, error) {
	return descriptors[a.Property].transform(a, ctx)
}

// split tokenizes on whitespace while keeping parenthesised groups
// such as calc(100% - 10px) together.
func split(raw string) []string {
	var (
		out   []string
		group []string
		depth int
	)
	for _, tok := range strings.Fields(raw) {
		depth += strings.Count(tok, "(") - strings.Count(tok, ")")
		group = append(group, tok)
		if depth <= 0 {
			out = append(out, strings.Join(group, " "))
			group = group[:0]
			depth = 0
		}
	}
	if len(group) > 0 {
		out = append(out, strings.Join(group, " "))
	}
	return out
}

// complete expands raw into the number of pieces kind requires.
func complete(kind Kind, raw string) []string {
	switch kind {
	case KindText, KindColor:
		return []string{raw}
	case KindList:
		return split(raw)
	case KindScalar:
		return completeN(split(raw), 1)
	case KindPair:
		return completeN(split(raw), 2)
	case KindQuad:
		return completeQuad(split(raw))
	case KindOctet:
		return completeOctet(split(raw))
	}
	return nil
}

func completeN(expr []string, n int) []string {
	out := make([]string, n)
	if len(expr) == 0 {
		return out
	}
	for i := range out {
		if i < len(expr) {
			out[i] = expr[i]
		} else {
			out[i] = expr[0]
		}
	}
	return out
}

// completeQuad applies the CSS 1/2/3/4-value rule: one value repeats,
// two alternate, three reuse the second for the fourth side.
func completeQuad(expr []string) []string {
	switch len(expr) {
	case 0:
		return make([]string, 4)
	case 1:
		return []string{expr[0], expr[0], expr[0], expr[0]}
	case 2:
		return []string{expr[0], expr[1], expr[0], expr[1]}
	case 3:
		return []string{expr[0], expr[1], expr[2], expr[1]}
	}
	return append([]string(nil), expr[:4]...)
}

// completeOctet splits on "/" into horizontal and vertical quads. With
// no slash the same quad is used for both axes.
func completeOctet(expr []string) []string {
	for i, tok := range expr {
		if tok == "/" {
			return append(completeQuad(expr[:i]), completeQuad(expr[i+1:])...)
		}
	}
	q := completeQuad(expr)
	return append(q, q...)
}
