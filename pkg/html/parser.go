package html

import "fmt"

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}

		switch token.Type {
		case TokenEOF:
			return p.doc, nil

		case TokenStartTag:
			// Raw text elements are collected on the document, not the tree.
			switch token.TagName {
			case "script":
				if !token.SelfClosing {
					p.doc.Scripts = append(p.doc.Scripts, p.tokenizer.ReadRawUntil("script"))
				}
				continue
			case "style":
				if !token.SelfClosing {
					p.doc.Stylesheets = append(p.doc.Stylesheets, p.tokenizer.ReadRawUntil("style"))
				}
				continue
			}

			node := NewElement(token.TagName, token.Attributes)
			p.currentParent().AddChild(node)
			if !token.SelfClosing && !isVoidElement(token.TagName) {
				p.stack = append(p.stack, node)
			}

		case TokenText:
			p.currentParent().AppendText(token.Text)

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}
}

// currentParent returns the current parent node (top of stack)
func (p *Parser) currentParent() *Node {
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is found and closed.
// Unmatched end tags are ignored.
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}
