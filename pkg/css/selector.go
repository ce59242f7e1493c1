package css

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelector is returned for selector text the parser cannot read.
var ErrInvalidSelector = errors.New("invalid selector")

// Selector is a complex selector: compound parts joined by combinators.
// Combinators[i] sits between Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
}

// SelectorPart is a compound selector such as div#main.a.b[data-x].
type SelectorPart struct {
	Element    string
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

type AttributeSelector struct {
	Name     string
	Operator string // "", "=", "^=", "$=", "*=", "~=", "|="
	Value    string
}

type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
	AdjacentSiblingCombinator
	GeneralSiblingCombinator
)

// Specificity returns the (ids, classes+attributes, elements) triple
// folded into a single comparable number.
func (s Selector) Specificity() int {
	spec := 0
	for _, p := range s.Parts {
		if p.ID != "" {
			spec += 100
		}
		spec += 10 * (len(p.Classes) + len(p.Attributes))
		if p.Element != "" && p.Element != "*" {
			spec++
		}
	}
	return spec
}

// SplitSelectorGroup splits "a, b > c" into its comma-separated members,
// ignoring commas inside attribute brackets.
func SplitSelectorGroup(group string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(group); i++ {
		switch group[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(group[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(group[start:]))
}

// ParseSelector parses one complex selector.
func ParseSelector(text string) (Selector, error) {
	sel := Selector{Raw: strings.Join(strings.Fields(text), " ")}
	if sel.Raw == "" {
		return sel, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}

	p := &selectorParser{in: sel.Raw}
	for {
		part, err := p.compound()
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel.Raw, err)
		}
		sel.Parts = append(sel.Parts, part)

		comb, more, err := p.combinator()
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel.Raw, err)
		}
		if !more {
			return sel, nil
		}
		sel.Combinators = append(sel.Combinators, comb)
	}
}

type selectorParser struct {
	in  string
	pos int
}

func (p *selectorParser) eof() bool { return p.pos >= len(p.in) }

func (p *selectorParser) compound() (SelectorPart, error) {
	var part SelectorPart
	if !p.eof() && p.in[p.pos] == '*' {
		part.Element = "*"
		p.pos++
	} else if name := p.ident(); name != "" {
		part.Element = strings.ToLower(name)
	}

	for !p.eof() {
		switch p.in[p.pos] {
		case '#':
			p.pos++
			if part.ID = p.ident(); part.ID == "" {
				return part, fmt.Errorf("missing id at %d", p.pos)
			}
		case '.':
			p.pos++
			cls := p.ident()
			if cls == "" {
				return part, fmt.Errorf("missing class name at %d", p.pos)
			}
			part.Classes = append(part.Classes, cls)
		case '[':
			attr, err := p.attribute()
			if err != nil {
				return part, err
			}
			part.Attributes = append(part.Attributes, attr)
		case ':':
			return part, fmt.Errorf("pseudo-classes are not supported")
		default:
			if part.Element == "" && part.ID == "" && len(part.Classes) == 0 && len(part.Attributes) == 0 {
				return part, fmt.Errorf("unexpected %q at %d", p.in[p.pos], p.pos)
			}
			return part, nil
		}
	}
	if part.Element == "" && part.ID == "" && len(part.Classes) == 0 && len(part.Attributes) == 0 {
		return part, fmt.Errorf("empty compound selector")
	}
	return part, nil
}

func (p *selectorParser) attribute() (AttributeSelector, error) {
	end := strings.IndexByte(p.in[p.pos:], ']')
	if end < 0 {
		return AttributeSelector{}, fmt.Errorf("unterminated attribute selector")
	}
	body := strings.TrimSpace(p.in[p.pos+1 : p.pos+end])
	p.pos += end + 1

	for _, op := range []string{"^=", "$=", "*=", "~=", "|=", "="} {
		if i := strings.Index(body, op); i > 0 {
			value := strings.TrimSpace(body[i+len(op):])
			value = strings.Trim(value, `"'`)
			return AttributeSelector{
				Name:     strings.ToLower(strings.TrimSpace(body[:i])),
				Operator: op,
				Value:    value,
			}, nil
		}
	}
	if body == "" {
		return AttributeSelector{}, fmt.Errorf("empty attribute selector")
	}
	return AttributeSelector{Name: strings.ToLower(body)}, nil
}

// combinator reads the whitespace/combinator between two compounds. more
// is false at end of input.
func (p *selectorParser) combinator() (Combinator, bool, error) {
	sawSpace := false
	for !p.eof() && p.in[p.pos] == ' ' {
		p.pos++
		sawSpace = true
	}
	if p.eof() {
		return 0, false, nil
	}

	comb := DescendantCombinator
	switch p.in[p.pos] {
	case '>':
		comb = ChildCombinator
	case '+':
		comb = AdjacentSiblingCombinator
	case '~':
		comb = GeneralSiblingCombinator
	default:
		if !sawSpace {
			return 0, false, fmt.Errorf("unexpected %q at %d", p.in[p.pos], p.pos)
		}
		return comb, true, nil
	}
	p.pos++
	for !p.eof() && p.in[p.pos] == ' ' {
		p.pos++
	}
	if p.eof() {
		return 0, false, fmt.Errorf("dangling combinator")
	}
	return comb, true, nil
}

func (p *selectorParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.in[p.pos]
		if !(c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80) {
			break
		}
		p.pos++
	}
	return p.in[start:p.pos]
}
