package css

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Rule is one selector of a style rule with its declarations. A rule
// with a selector list is split into one Rule per selector so each
// carries its own specificity.
type Rule struct {
	Selector cascadia.Sel
	Sheet    Sheet
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses the contents of a <style> element. At-rules
// are ignored.
func ParseStylesheet(text string) (*Stylesheet, error) {
	ss := &Stylesheet{}
	if strings.TrimSpace(text) == "" {
		return ss, nil
	}
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	for _, r := range parsed.Rules {
		if r.Kind != dcss.QualifiedRule {
			continue
		}
		sheet, err := sheetFromDeclarations(r.Declarations)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Prelude, err)
		}
		for _, raw := range r.Selectors {
			sel, err := cascadia.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", raw, err)
			}
			ss.Rules = append(ss.Rules, Rule{Selector: sel, Sheet: sheet})
		}
	}
	return ss, nil
}

func sheetFromDeclarations(decls []*dcss.Declaration) (Sheet, error) {
	s := NewSheet()
	for _, d := range decls {
		var err error
		if s, err = declare(s, d); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Append adds the rules of other after those of s.
func (s *Stylesheet) Append(other *Stylesheet) {
	s.Rules = append(s.Rules, other.Rules...)
}

// Match returns the sheets of every rule matching n, lowest specificity
// first. Rules of equal specificity keep source order.
func (s *Stylesheet) Match(n *html.Node) []Sheet {
	var matched []Rule
	for _, r := range s.Rules {
		if r.Selector.Match(n) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Selector.Specificity().Less(matched[j].Selector.Specificity())
	})
	sheets := make([]Sheet, len(matched))
	for i, r := range matched {
		sheets[i] = r.Sheet
	}
	return sheets
}
