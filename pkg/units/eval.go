// Package units evaluates CSS distance expressions such as "10px",
// "2em", "50%" or "calc(100% - 2em)" into pixel values.
//
// Unit substitution happens first, then the remaining arithmetic is
// evaluated by a small recursive-descent parser. Nothing outside of
// numbers, the four operators and parentheses is accepted, so template
// authors cannot smuggle arbitrary code through a style value.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidExpression is returned when an expression is not a
// well-formed arithmetic expression after unit substitution.
var ErrInvalidExpression = errors.New("invalid expression")

// AutoMode selects what the keyword auto evaluates to.
type AutoMode int

const (
	// AutoCompared makes auto evaluate to the compared value.
	AutoCompared AutoMode = iota
	// AutoFontSize makes auto evaluate to the font size. Used when
	// resolving font-size itself.
	AutoFontSize
)

// Evaluate resolves expr to pixels. fontSize is the base for em units,
// compared is the base for percentages.
func Evaluate(expr string, fontSize, compared float64) (float64, error) {
	return EvaluateAuto(expr, fontSize, compared, AutoCompared)
}

// EvaluateAuto is Evaluate with an explicit meaning for auto.
func EvaluateAuto(expr string, fontSize, compared float64, mode AutoMode) (float64, error) {
	toks, err := lex(expr, fontSize, compared, mode)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	p := &parser{toks: toks, src: expr}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, p.fail("unexpected %q", p.toks[p.pos].text)
	}
	return v, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	value float64
	text  string
}

// lex splits expr into tokens, converting every dimension into pixels.
func lex(expr string, fontSize, compared float64, mode AutoMode) ([]token, error) {
	var toks []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOp, text: string(c)})
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				i++
			}
			num, err := strconv.ParseFloat(expr[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q in %q", ErrInvalidExpression, expr[start:i], expr)
			}
			ustart := i
			for i < len(expr) && (isLetter(expr[i]) || expr[i] == '%') {
				i++
			}
			v, err := applyUnit(num, expr[ustart:i], fontSize, compared)
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, expr)
			}
			toks = append(toks, token{kind: tokNumber, value: v, text: expr[start:i]})
		case isLetter(c):
			start := i
			for i < len(expr) && (isLetter(expr[i]) || expr[i] == '-') {
				i++
			}
			switch word := expr[start:i]; word {
			case "calc":
				// calc(...) is just a parenthesised group
			case "auto":
				v := compared
				if mode == AutoFontSize {
					v = fontSize
				}
				toks = append(toks, token{kind: tokNumber, value: v, text: word})
			default:
				return nil, fmt.Errorf("%w: unknown word %q in %q", ErrInvalidExpression, word, expr)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidExpression, c, expr)
		}
	}
	return toks, nil
}

func applyUnit(num float64, unit string, fontSize, compared float64) (float64, error) {
	switch unit {
	case "", "px":
		return num, nil
	case "em":
		return num * fontSize, nil
	case "%":
		return num / 100 * compared, nil
	}
	return 0, fmt.Errorf("%w: unsupported unit %q", ErrInvalidExpression, unit)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// parser implements
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = ["-" | "+"] ( number | "(" expr ")" )
type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s in %q", ErrInvalidExpression, fmt.Sprintf(format, args...), p.src)
}

func (p *parser) peekOp(ops string) (string, bool) {
	if p.pos < len(p.toks) && p.toks[p.pos].kind == tokOp && strings.Contains(ops, p.toks[p.pos].text) {
		return p.toks[p.pos].text, true
	}
	return "", false
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("+-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("*/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, p.fail("division by zero")
		}
		left /= right
	}
}

func (p *parser) factor() (float64, error) {
	if op, ok := p.peekOp("+-"); ok {
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		if op == "-" {
			return -v, nil
		}
		return v, nil
	}
	if p.pos >= len(p.toks) {
		return 0, p.fail("unexpected end")
	}
	tok := p.toks[p.pos]
	switch tok.kind {
	case tokNumber:
		p.pos++
		return tok.value, nil
	case tokLParen:
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokRParen {
			return 0, p.fail("missing )")
		}
		p.pos++
		return v, nil
	}
	return 0, p.fail("unexpected %q", tok.text)
}
