package layout

import (
	"linemate/pkg/css"
	"linemate/pkg/geom"
	"linemate/pkg/html"
)

// Box is an element's border box in document coordinates.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64 // border-box width
	Height   float64 // border-box height
	Margin   css.BoxEdge
	Border   css.BoxEdge
	Position css.PositionType
	ZIndex   int
	Children []*Box
	Parent   *Box
	Text     []TextRun
}

// TextRun is one text child, placed at the start of its line.
type TextRun struct {
	X, Y float64
	Text string
}

// Geom returns the box in the shape the geometry engine consumes.
func (b *Box) Geom() geom.Box {
	return geom.Box{Top: b.Y, Left: b.X, Width: b.Width, Height: b.Height}
}

// contentOrigin is where in-flow and positioned children are placed from.
func (b *Box) contentOrigin() (x, y float64) {
	return b.X + b.Border.Left, b.Y + b.Border.Top
}

func (b *Box) contentWidth() float64 {
	return b.Width - b.Border.Left - b.Border.Right
}

// LineHeight is the height given to a run of text; glyphs are not shaped.
const LineHeight = 18.0

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	styles map[*html.Node]*css.Style
	boxes  map[*html.Node]*Box
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}
