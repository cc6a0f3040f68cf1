package css

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/Drelf2018/vue2img/pkg/units"
)

// ParseColor parses a CSS colour: a named colour, transparent, #rgb,
// #rgba, #rrggbb, #rrggbbaa, rgb(r, g, b) or rgba(r, g, b, a).
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunctional(s)
	}
	return color.NRGBA{}, fmt.Errorf("%w: unknown colour %q", units.ErrInvalidExpression, s)
}

func parseHex(s string) (color.NRGBA, error) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: bad hex colour %q", units.ErrInvalidExpression, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: bad hex colour %q", units.ErrInvalidExpression, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// parseFunctional handles rgb() and rgba(). Channels may be integers or
// percentages; alpha is a fraction in [0, 1].
func parseFunctional(s string) (color.NRGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return color.NRGBA{}, fmt.Errorf("%w: bad colour %q", units.ErrInvalidExpression, s)
	}
	args := strings.FieldsFunc(s[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: bad colour %q", units.ErrInvalidExpression, s)
	}
	var ch [4]uint8
	ch[3] = 255
	for i, arg := range args {
		pct := strings.HasSuffix(arg, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: bad colour %q", units.ErrInvalidExpression, s)
		}
		switch {
		case pct:
			f = f / 100 * 255
		case i == 3:
			f *= 255
		}
		ch[i] = uint8(clamp(f+0.5, 0, 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
