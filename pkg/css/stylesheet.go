package css

import (
	"regexp"
	"sort"
	"strings"

	"linemate/pkg/html"
)

// Rule represents a CSS rule (selector group + declarations)
type Rule struct {
	Selectors    []Selector
	Declarations map[string]string
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

var commentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// ParseStylesheet parses stylesheet text. Rules with selectors the matcher
// does not understand are skipped, as browsers do.
func ParseStylesheet(text string) *Stylesheet {
	sheet := &Stylesheet{}
	text = commentRe.ReplaceAllString(text, "")

	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			return sheet
		}
		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			return sheet
		}
		prelude := strings.TrimSpace(text[:open])
		block := text[open+1 : open+end]
		text = text[open+end+1:]

		selectors, err := parseGroup(prelude)
		if err != nil {
			continue
		}
		sheet.Rules = append(sheet.Rules, Rule{Selectors: selectors, Declarations: parseDeclarations(block)})
	}
}

type matchedRule struct {
	specificity int
	order       int
	decls       map[string]string
}

// ComputeStyles cascades the document's stylesheets and inline style
// attributes into one Style per element. Later rules win over earlier
// ones of equal specificity; inline styles win over both.
func ComputeStyles(doc *html.Document) map[*html.Node]*Style {
	var sheets []*Stylesheet
	for _, text := range doc.Stylesheets {
		sheets = append(sheets, ParseStylesheet(text))
	}

	styles := make(map[*html.Node]*Style)
	doc.Root.Walk(func(n *html.Node) bool {
		var matched []matchedRule
		order := 0
		for _, sheet := range sheets {
			for _, rule := range sheet.Rules {
				order++
				best := -1
				for _, sel := range rule.Selectors {
					if MatchesSelector(n, sel) && sel.Specificity() > best {
						best = sel.Specificity()
					}
				}
				if best >= 0 {
					matched = append(matched, matchedRule{best, order, rule.Declarations})
				}
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].specificity != matched[j].specificity {
				return matched[i].specificity < matched[j].specificity
			}
			return matched[i].order < matched[j].order
		})

		style := NewStyle()
		for _, m := range matched {
			for k, v := range m.decls {
				style.Set(k, v)
			}
		}
		if attr, ok := n.GetAttribute("style"); ok {
			style.Merge(ParseInlineStyle(attr))
		}
		styles[n] = style
		return false
	})
	return styles
}
