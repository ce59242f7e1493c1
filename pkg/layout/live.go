package layout

import (
	"errors"
	"fmt"

	"linemate/pkg/geom"
	"linemate/pkg/html"
)

// ErrNotRendered is returned when an element produced no box (detached,
// display:none, or a non-rendered tag).
var ErrNotRendered = errors.New("element has no layout box")

// Live measures elements of one document, re-running layout on Refresh so
// that style changes made between draw calls are picked up.
type Live struct {
	doc    *html.Document
	engine *LayoutEngine
	boxes  []*Box
}

func NewLive(doc *html.Document, viewportWidth, viewportHeight float64) *Live {
	l := &Live{doc: doc, engine: NewLayoutEngine(viewportWidth, viewportHeight)}
	l.Refresh()
	return l
}

// Refresh lays the document out again.
func (l *Live) Refresh() {
	l.boxes = l.engine.Layout(l.doc)
}

// Boxes returns the top-level boxes of the latest layout.
func (l *Live) Boxes() []*Box { return l.boxes }

// Measure returns n's border box from the latest layout.
func (l *Live) Measure(n *html.Node) (geom.Box, error) {
	b, ok := l.engine.BoxFor(n)
	if !ok {
		return geom.Box{}, fmt.Errorf("%w: <%s>", ErrNotRendered, n.TagName)
	}
	return b.Geom(), nil
}

// PlacementOrigin returns the document position that left/top of an
// absolutely positioned child of parent are measured from.
func (l *Live) PlacementOrigin(parent *html.Node) geom.Point {
	b, ok := l.engine.BoxFor(parent)
	if !ok {
		return geom.Point{}
	}
	x, y := containingBlock(b).contentOrigin()
	return geom.Point{X: x, Y: y}
}
