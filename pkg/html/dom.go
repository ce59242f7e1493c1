package html

import (
	"sort"
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document is a parsed page. Root is a synthetic "document" element that
// holds the top-level nodes.
type Document struct {
	Root        *Node
	Stylesheets []string // contents of <style> elements
	Scripts     []string // contents of <script> elements, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
	}
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs map[string]string) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
}

// Body returns the <body> element, or the document root when the page has
// none.
func (d *Document) Body() *Node {
	var body *Node
	d.Root.Walk(func(n *Node) bool {
		if n.TagName == "body" {
			body = n
			return true
		}
		return false
	})
	if body == nil {
		return d.Root
	}
	return body
}

// ElementByID returns the first element whose id attribute equals id.
func (d *Document) ElementByID(id string) *Node {
	var found *Node
	d.Root.Walk(func(n *Node) bool {
		if v, ok := n.GetAttribute("id"); ok && v == id {
			found = n
			return true
		}
		return false
	})
	return found
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.Attributes, name)
}

// HasClass reports whether cls appears in the class attribute.
func (n *Node) HasClass(cls string) bool {
	v, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass appends cls to the class attribute unless already present.
func (n *Node) AddClass(cls string) {
	if n.HasClass(cls) {
		return
	}
	v, _ := n.GetAttribute("class")
	n.SetAttribute("class", strings.TrimSpace(v+" "+cls))
}

// AddChild adds a child node and sets up the parent relationship.
// A child that already has a parent is moved.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.Children = append(n.Children, &Node{Type: TextNode, Text: text, Parent: n})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk visits n and its element descendants depth-first in document order.
// Returning true from fn stops the walk; Walk then reports true.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n.Type == ElementNode && fn(n) {
		return true
	}
	// Iterate over a copy so fn may detach the node it is visiting.
	children := append([]*Node(nil), n.Children...)
	for _, child := range children {
		if child.Walk(fn) {
			return true
		}
	}
	return false
}

// SerializeOuter returns the outerHTML of this node.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(n.Attributes[k]))
		sb.WriteByte('"')
	}

	sb.WriteByte('>')
	if isVoidElement(n.TagName) {
		return
	}
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

var (
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
