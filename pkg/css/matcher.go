package css

import (
	"strings"

	"linemate/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector.
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	// Start matching from the rightmost part (the target element)
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom checks the part at index i against node and then walks the
// combinator chain leftwards.
func matchesFrom(node *html.Node, selector Selector, i int) bool {
	if !matchesPart(node, selector.Parts[i]) {
		return false
	}
	if i == 0 {
		return true
	}

	switch selector.Combinators[i-1] {
	case DescendantCombinator:
		for a := node.Parent; a != nil && !isDocumentRoot(a); a = a.Parent {
			if matchesFrom(a, selector, i-1) {
				return true
			}
		}
	case ChildCombinator:
		if p := node.Parent; p != nil && !isDocumentRoot(p) {
			return matchesFrom(p, selector, i-1)
		}
	case AdjacentSiblingCombinator:
		if s := previousElement(node); s != nil {
			return matchesFrom(s, selector, i-1)
		}
	case GeneralSiblingCombinator:
		for s := previousElement(node); s != nil; s = previousElement(s) {
			if matchesFrom(s, selector, i-1) {
				return true
			}
		}
	}
	return false
}

func isDocumentRoot(n *html.Node) bool {
	return n.Parent == nil && n.TagName == "document"
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	for _, attr := range part.Attributes {
		if !matchesAttribute(node, attr) {
			return false
		}
	}
	return true
}

func matchesAttribute(node *html.Node, attr AttributeSelector) bool {
	value, ok := node.GetAttribute(attr.Name)
	if !ok {
		return false
	}

	switch attr.Operator {
	case "":
		return true
	case "=":
		return value == attr.Value
	case "^=":
		return strings.HasPrefix(value, attr.Value)
	case "$=":
		return strings.HasSuffix(value, attr.Value)
	case "*=":
		return strings.Contains(value, attr.Value)
	case "~=":
		for _, word := range strings.Fields(value) {
			if word == attr.Value {
				return true
			}
		}
		return false
	case "|=":
		return value == attr.Value || strings.HasPrefix(value, attr.Value+"-")
	}
	return false
}

// previousElement returns the previous element sibling of a node
func previousElement(node *html.Node) *html.Node {
	if node.Parent == nil {
		return nil
	}
	var prev *html.Node
	for _, sibling := range node.Parent.Children {
		if sibling == node {
			return prev
		}
		if sibling.Type == html.ElementNode {
			prev = sibling
		}
	}
	return nil
}

// QueryAll returns the descendants of root (root excluded) matching any
// selector in the comma-separated group, in document order.
func QueryAll(root *html.Node, group string) ([]*html.Node, error) {
	selectors, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var results []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n != root && matchesAny(n, selectors) {
			results = append(results, n)
		}
		return false
	})
	return results, nil
}

// Query returns the first match of QueryAll, or nil.
func Query(root *html.Node, group string) (*html.Node, error) {
	selectors, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var result *html.Node
	root.Walk(func(n *html.Node) bool {
		if n != root && matchesAny(n, selectors) {
			result = n
			return true
		}
		return false
	})
	return result, nil
}

// Matches reports whether node matches any selector in group.
func Matches(node *html.Node, group string) (bool, error) {
	selectors, err := parseGroup(group)
	if err != nil {
		return false, err
	}
	return matchesAny(node, selectors), nil
}

func parseGroup(group string) ([]Selector, error) {
	var selectors []Selector
	for _, s := range SplitSelectorGroup(group) {
		sel, err := ParseSelector(s)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

func matchesAny(n *html.Node, selectors []Selector) bool {
	for _, sel := range selectors {
		if MatchesSelector(n, sel) {
			return true
		}
	}
	return false
}
