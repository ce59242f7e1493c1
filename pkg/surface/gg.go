package surface

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"linemate/pkg/geom"
)

// GGBackend rasterizes surfaces with fogleman/gg.
type GGBackend struct{}

func (GGBackend) NewCanvas(width, height int) Canvas {
	return &GGCanvas{dc: gg.NewContext(width, height)}
}

// GGCanvas adapts a gg.Context to Canvas.
type GGCanvas struct {
	dc *gg.Context
}

func (c *GGCanvas) MoveTo(p geom.DevicePoint) { c.dc.MoveTo(p.X, p.Y) }
func (c *GGCanvas) LineTo(p geom.DevicePoint) { c.dc.LineTo(p.X, p.Y) }
func (c *GGCanvas) Stroke()                   { c.dc.Stroke() }

func (c *GGCanvas) Image() image.Image { return c.dc.Image() }

// Context exposes the underlying gg context for custom drawing.
func (c *GGCanvas) Context() *gg.Context { return c.dc }

// SetStroke applies style. gg has no mitered joins; miter falls back to
// bevel and MiterLimit is not used.
func (c *GGCanvas) SetStroke(style StrokeStyle) {
	c.dc.SetRGBA(style.Color.RGBA())
	c.dc.SetLineWidth(style.Width)

	switch style.Cap {
	case CapButt:
		c.dc.SetLineCap(gg.LineCapButt)
	case CapSquare:
		c.dc.SetLineCap(gg.LineCapSquare)
	default:
		c.dc.SetLineCap(gg.LineCapRound)
	}
	switch style.Join {
	case JoinBevel, JoinMiter:
		c.dc.SetLineJoin(gg.LineJoinBevel)
	default:
		c.dc.SetLineJoin(gg.LineJoinRound)
	}

	c.dc.SetDash(shiftDash(style.Dash, style.DashOffset)...)
}

// shiftDash folds a dash offset into the pattern itself so that the
// pattern starts the given distance into its cycle. The result always
// begins with an "on" length and has even length.
func shiftDash(pattern []float64, offset float64) []float64 {
	if len(pattern) == 0 {
		return nil
	}
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64(nil), pattern...), pattern...)
	}
	total := 0.0
	for _, d := range pattern {
		total += d
	}
	if offset == 0 || total <= 0 {
		return pattern
	}

	off := math.Mod(offset, total)
	if off < 0 {
		off += total
	}
	acc := 0.0
	for i, d := range pattern {
		if off < acc+d {
			into := off - acc
			out := []float64{d - into}
			out = append(out, pattern[i+1:]...)
			out = append(out, pattern[:i]...)
			out = append(out, into)
			if i%2 == 1 {
				out = append([]float64{0}, out...)
			}
			if len(out)%2 == 1 {
				out = append(out, 0)
			}
			return out
		}
		acc += d
	}
	return pattern
}
