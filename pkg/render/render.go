// Package render paints a laid-out document and its connector surfaces.
package render

import (
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"linemate/pkg/css"
	"linemate/pkg/html"
	"linemate/pkg/layout"
	"linemate/pkg/surface"
)

type Renderer struct {
	context *gg.Context
	scale   float64
}

// NewRenderer returns a renderer for a width×height viewport. scale is the
// output pixel ratio; the image is width*scale pixels wide.
func NewRenderer(width, height int, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	dc := gg.NewContext(int(math.Ceil(float64(width)*scale)), int(math.Ceil(float64(height)*scale)))
	return &Renderer{context: dc, scale: scale}
}

// Render paints boxes in stacking order. Canvas elements that belong to one
// of surfaces are composited from the surface's raster.
func (r *Renderer) Render(boxes []*layout.Box, surfaces []*surface.Surface) {
	r.context.Identity()
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	r.context.Scale(r.scale, r.scale)

	bySurface := make(map[*html.Node]*surface.Surface, len(surfaces))
	for _, s := range surfaces {
		bySurface[s.Node] = s
	}

	all := collectAllBoxes(boxes)
	sortByStackLevel(all)
	for _, box := range all {
		if s, ok := bySurface[box.Node]; ok {
			r.drawSurface(box, s)
			continue
		}
		r.drawBox(box)
	}
}

// collectAllBoxes flattens the box tree into a single list
func collectAllBoxes(boxes []*layout.Box) []*layout.Box {
	result := make([]*layout.Box, 0)
	for _, box := range boxes {
		result = append(result, box)
		result = append(result, collectAllBoxes(box.Children)...)
	}
	return result
}

// stackLevel orders painting. The root element and body paint the page
// background below everything, including negative z-index surfaces.
func stackLevel(box *layout.Box) int {
	switch box.Node.TagName {
	case "html", "body":
		return math.MinInt
	}
	return box.ZIndex
}

func sortByStackLevel(boxes []*layout.Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return stackLevel(boxes[i]) < stackLevel(boxes[j])
	})
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(c.RGBA())
}

func (r *Renderer) drawBox(box *layout.Box) {
	if bgColor, ok := box.Style.Get("background-color"); ok {
		if color, ok := css.ParseColor(bgColor); ok && color.A > 0 && box.Width > 0 && box.Height > 0 {
			r.setColor(color)
			r.context.DrawRectangle(box.X, box.Y, box.Width, box.Height)
			r.context.Fill()
		}
	}
	r.drawBorder(box)
	r.drawText(box)
}

// borderColor returns the color for one side, falling back to
// border-color and then to the element's color.
func borderColor(box *layout.Box, side string) css.Color {
	for _, prop := range []string{"border-" + side + "-color", "border-color", "color"} {
		if colorStr, ok := box.Style.Get(prop); ok {
			if color, ok := css.ParseColor(colorStr); ok {
				return color
			}
		}
	}
	return css.Color{A: 1}
}

// drawBorder fills each side as a trapezoid so corners miter.
func (r *Renderer) drawBorder(box *layout.Box) {
	b := box.Border
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}

	outerLeft, outerTop := box.X, box.Y
	outerRight, outerBottom := box.X+box.Width, box.Y+box.Height
	innerLeft, innerTop := outerLeft+b.Left, outerTop+b.Top
	innerRight, innerBottom := outerRight-b.Right, outerBottom-b.Bottom

	sides := []struct {
		name  string
		width float64
		quad  [4][2]float64
	}{
		{"top", b.Top, [4][2]float64{{outerLeft, outerTop}, {outerRight, outerTop}, {innerRight, innerTop}, {innerLeft, innerTop}}},
		{"right", b.Right, [4][2]float64{{outerRight, outerTop}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerRight, innerTop}}},
		{"bottom", b.Bottom, [4][2]float64{{outerLeft, outerBottom}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerLeft, innerBottom}}},
		{"left", b.Left, [4][2]float64{{outerLeft, outerTop}, {outerLeft, outerBottom}, {innerLeft, innerBottom}, {innerLeft, innerTop}}},
	}
	for _, side := range sides {
		if side.width <= 0 {
			continue
		}
		color := borderColor(box, side.name)
		if color.A == 0 {
			continue
		}
		r.setColor(color)
		r.context.MoveTo(side.quad[0][0], side.quad[0][1])
		for _, p := range side.quad[1:] {
			r.context.LineTo(p[0], p[1])
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

// drawText writes each text run with gg's built-in face, vertically
// centered on its line.
func (r *Renderer) drawText(box *layout.Box) {
	if len(box.Text) == 0 {
		return
	}
	color := css.Color{A: 1}
	if colorStr, ok := box.Style.Get("color"); ok {
		if c, ok := css.ParseColor(colorStr); ok {
			color = c
		}
	}
	r.setColor(color)
	for _, run := range box.Text {
		r.context.DrawStringAnchored(run.Text, run.X+2, run.Y+layout.LineHeight/2, 0, 0.5)
	}
}

// drawSurface composites a surface raster into its element's box. The
// raster is ratio times the logical size; it is scaled to the output.
func (r *Renderer) drawSurface(box *layout.Box, s *surface.Surface) {
	imager, ok := s.Canvas.(surface.Imager)
	if !ok || s.Ratio <= 0 {
		return
	}
	r.context.Push()
	r.context.Scale(1/s.Ratio, 1/s.Ratio)
	r.context.DrawImage(imager.Image(), int(math.Round(box.X*s.Ratio)), int(math.Round(box.Y*s.Ratio)))
	r.context.Pop()
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}
