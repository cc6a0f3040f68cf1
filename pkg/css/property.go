package css

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedProperty is returned for a property outside the closed set.
	ErrUnsupportedProperty = errors.New("unsupported property")
	// ErrUnresolvedDependency is returned when a property is transformed
	// before one of its contextual inputs has been resolved.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
)

// Property identifies one member of the closed property set.
type Property int

const (
	Top Property = iota
	Left
	Color
	Float
	Width
	Margin
	Height
	Padding
	Display
	FontSize
	Position
	FontFamily
	BorderRadius
	BackgroundColor
	GridGap
	GridTemplateColumns

	numProperties
)

// Kind is the arity class of a property value.
type Kind int

const (
	KindScalar Kind = iota // one length
	KindPair               // two lengths, one value doubles
	KindQuad               // CSS 1/2/3/4 completion
	KindOctet              // two quads split on "/"
	KindList               // any number of tokens
	KindText               // raw string
	KindColor              // raw string parsed as a colour
)

// Input names a contextual value a property transform reads.
type Input int

const (
	InFontSize       Input = iota // own resolved font-size
	InParentFontSize              // parent's resolved font-size
	InParentWidth                 // parent's width, or grid track width for grid items
	InParentHeight                // parent's declared height, may be absent
	InSide                        // own horizontal margin + padding
	InWidth                       // own resolved width
	InHeight                      // own resolved height, may be absent
	InGridGap                     // own resolved grid-gap
)

var inputNames = [...]string{"font-size", "parent.font-size", "parent.width", "parent.height", "side", "width", "height", "grid-gap"}

func (i Input) String() string { return inputNames[i] }

// descriptor is the per-property class metadata.
type descriptor struct {
	name      string
	kind      Kind
	initial   string
	inherited bool
	inputs    []Input
	transform func(a Attribute, ctx Context) (Value, error)
}

var lengthInputs = []Input{InFontSize, InParentWidth}

var descriptors = [numProperties]descriptor{
	Top:                 {"top", KindScalar, "0px", false, lengthInputs, transformLengths},
	Left:                {"left", KindScalar, "0px", false, lengthInputs, transformLengths},
	Color:               {"color", KindColor, "black", true, nil, transformColor},
	Float:               {"float", KindText, "none", false, nil, transformText},
	Width:               {"width", KindScalar, "auto", false, []Input{InFontSize, InParentWidth, InSide}, transformWidth},
	Margin:              {"margin", KindQuad, "0px", false, lengthInputs, transformLengths},
	Height:              {"height", KindScalar, "auto", false, []Input{InFontSize, InParentHeight}, transformHeight},
	Padding:             {"padding", KindQuad, "0px", false, lengthInputs, transformLengths},
	Display:             {"display", KindText, "block", false, nil, transformText},
	FontSize:            {"font-size", KindScalar, "16px", true, []Input{InParentFontSize}, transformFontSize},
	Position:            {"position", KindText, "static", false, nil, transformText},
	FontFamily:          {"font-family", KindText, "sans-serif", true, nil, transformText},
	BorderRadius:        {"border-radius", KindOctet, "0px", false, []Input{InFontSize, InWidth, InHeight}, transformBorderRadius},
	BackgroundColor:     {"background-color", KindColor, "#00000000", false, nil, transformColor},
	GridGap:             {"grid-gap", KindPair, "0px", false, []Input{InFontSize, InWidth, InHeight}, transformGridGap},
	GridTemplateColumns: {"grid-template-columns", KindList, "", false, []Input{InFontSize, InWidth, InGridGap}, transformGridTemplateColumns},
}

var byName = func() map[string]Property {
	m := make(map[string]Property, numProperties)
	for p := Property(0); p < numProperties; p++ {
		m[descriptors[p].name] = p
	}
	return m
}()

// LookupProperty maps a CSS property name to its Property.
func LookupProperty(name string) (Property, error) {
	p, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedProperty, name)
	}
	return p, nil
}

// Properties returns every property in declaration order.
func Properties() []Property {
	ps := make([]Property, numProperties)
	for i := range ps {
		ps[i] = Property(i)
	}
	return ps
}

func (p Property) String() string { return descriptors[p].name }

// Kind reports the arity class of p.
func (p Property) Kind() Kind { return descriptors[p].kind }

// Initial reports the initial raw value of p.
func (p Property) Initial() string { return descriptors[p].initial }

// Inherited reports whether p takes its parent's value when unset.
func (p Property) Inherited() bool { return descriptors[p].inherited }

// Inputs lists the contextual inputs p's transform needs.
func (p Property) Inputs() []Input { return descriptors[p].inputs }
