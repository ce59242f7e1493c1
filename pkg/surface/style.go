package surface

import (
	"fmt"

	"linemate/pkg/css"
)

type LineCap string

const (
	CapButt   LineCap = "butt"
	CapRound  LineCap = "round"
	CapSquare LineCap = "square"
)

type LineJoin string

const (
	JoinRound LineJoin = "round"
	JoinBevel LineJoin = "bevel"
	JoinMiter LineJoin = "miter"
)

// StrokeStyle describes how a path is stroked, in logical units.
type StrokeStyle struct {
	Color      css.Color
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dash       []float64 // nil strokes a solid line
	DashOffset float64
}

// Scaled converts a logical style to backing-buffer pixels.
func (s StrokeStyle) Scaled(ratio float64) StrokeStyle {
	out := s
	out.Width *= ratio
	out.DashOffset *= ratio
	if s.Dash != nil {
		out.Dash = make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			out.Dash[i] = d * ratio
		}
	}
	return out
}

func (s StrokeStyle) String() string {
	return fmt.Sprintf("stroke(%v w=%g cap=%s join=%s dash=%v@%g)", s.Color, s.Width, s.Cap, s.Join, s.Dash, s.DashOffset)
}
