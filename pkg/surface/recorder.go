package surface

import (
	"linemate/pkg/geom"
	"linemate/pkg/route"
)

// RecorderBackend produces canvases that remember what was drawn instead
// of rasterizing it.
type RecorderBackend struct{}

func (RecorderBackend) NewCanvas(width, height int) Canvas {
	return &Recorder{Width: width, Height: height}
}

// Recorder is a Canvas that logs every call.
type Recorder struct {
	Width, Height int
	Ops           []route.Primitive
	Styles        []StrokeStyle
	Strokes       int
}

func (r *Recorder) MoveTo(p geom.DevicePoint) { r.Ops = append(r.Ops, route.Primitive{Op: route.MoveTo, P: p}) }
func (r *Recorder) LineTo(p geom.DevicePoint) { r.Ops = append(r.Ops, route.Primitive{Op: route.LineTo, P: p}) }
func (r *Recorder) SetStroke(s StrokeStyle)   { r.Styles = append(r.Styles, s) }
func (r *Recorder) Stroke()                   { r.Strokes++ }

// Style returns the last style set, or the zero style.
func (r *Recorder) Style() StrokeStyle {
	if len(r.Styles) == 0 {
		return StrokeStyle{}
	}
	return r.Styles[len(r.Styles)-1]
}
