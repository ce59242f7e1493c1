package layout

import (
	"linemate/pkg/css"
	"linemate/pkg/html"
)

// Layout computes boxes for every rendered element of doc and returns the
// top-level boxes. Previous results are discarded.
func (le *LayoutEngine) Layout(doc *html.Document) []*Box {
	le.styles = css.ComputeStyles(doc)
	le.boxes = make(map[*html.Node]*Box)

	root := &Box{Node: doc.Root, Style: css.NewStyle(), Width: le.viewport.width, Position: css.PositionRelative}
	le.layoutChildren(root)
	if root.Height < le.viewport.height {
		root.Height = le.viewport.height
	}
	return root.Children
}

// BoxFor returns the box computed for n by the last Layout call.
func (le *LayoutEngine) BoxFor(n *html.Node) (*Box, bool) {
	b, ok := le.boxes[n]
	return b, ok
}

// layoutChildren places the element children of parent, stacking in-flow
// boxes vertically, and grows parent to fit when its height is auto.
func (le *LayoutEngine) layoutChildren(parent *Box) {
	x, y := parent.contentOrigin()
	cursor := y
	for _, child := range parent.Node.Children {
		if child.Type == html.TextNode {
			parent.Text = append(parent.Text, TextRun{X: x, Y: cursor, Text: child.Text})
			cursor += LineHeight
			continue
		}
		box := le.layoutNode(child, x, cursor, parent.contentWidth(), parent)
		if box == nil {
			continue
		}
		parent.Children = append(parent.Children, box)
		if box.Position != css.PositionAbsolute {
			cursor = box.Y + box.Height + box.Margin.Bottom
			if box.Position == css.PositionRelative {
				// Relative offsets do not move the flow.
				top, _ := box.Style.GetLength("top")
				cursor -= top
			}
		}
	}

	if _, explicit := parent.Style.GetLength("height"); !explicit {
		if h := cursor - y + parent.Border.Top + parent.Border.Bottom; h > parent.Height {
			parent.Height = h
		}
	}
}

func (le *LayoutEngine) layoutNode(node *html.Node, x, y, availableWidth float64, parent *Box) *Box {
	if !isRendered(node) {
		return nil
	}
	style := le.styles[node]
	if style == nil {
		style = css.NewStyle()
	}
	if style.IsHidden() {
		return nil
	}

	box := &Box{
		Node:     node,
		Style:    style,
		Margin:   style.GetMargin(),
		Border:   style.GetBorderWidth(),
		Position: style.GetPosition(),
		ZIndex:   style.GetZIndex(),
		Parent:   parent,
	}
	borders := box.Border.Left + box.Border.Right

	if w, ok := style.GetLength("width"); ok {
		box.Width = w + borders
	} else if box.Position == css.PositionAbsolute {
		box.Width = borders
	} else {
		box.Width = availableWidth - box.Margin.Left - box.Margin.Right
	}
	if h, ok := style.GetLength("height"); ok {
		box.Height = h + box.Border.Top + box.Border.Bottom
	} else {
		box.Height = box.Border.Top + box.Border.Bottom
	}

	left, hasLeft := style.GetLength("left")
	top, hasTop := style.GetLength("top")
	switch box.Position {
	case css.PositionAbsolute:
		cx, cy := containingBlock(parent).contentOrigin()
		box.X = cx + box.Margin.Left
		box.Y = cy + box.Margin.Top
		if hasLeft {
			box.X += left
		}
		if hasTop {
			box.Y += top
		}
	case css.PositionRelative:
		box.X = x + box.Margin.Left + left
		box.Y = y + box.Margin.Top + top
	default:
		box.X = x + box.Margin.Left
		box.Y = y + box.Margin.Top
	}

	le.boxes[node] = box
	le.layoutChildren(box)
	return box
}

// containingBlock returns the nearest positioned ancestor box, or the
// document box at the top of the chain.
func containingBlock(b *Box) *Box {
	for p := b; p != nil; p = p.Parent {
		if p.Position != css.PositionStatic || p.Parent == nil {
			return p
		}
	}
	return b
}

func isRendered(n *html.Node) bool {
	switch n.TagName {
	case "head", "title", "meta", "link", "script", "style":
		return false
	}
	return true
}
