package geom

import (
	"errors"
	"math"
)

// ErrNoBoxes is returned when a frame is requested over zero boxes.
var ErrNoBoxes = errors.New("no boxes to frame")

// ComputeFrame returns the smallest frame enclosing every box.
func ComputeFrame(boxes []Box) (Frame, error) {
	if len(boxes) == 0 {
		return Frame{}, ErrNoBoxes
	}

	f := Frame{
		Top:    math.Inf(1),
		Left:   math.Inf(1),
		Bottom: math.Inf(-1),
		Right:  math.Inf(-1),
	}
	for _, b := range boxes {
		f.Top = math.Min(f.Top, b.Top)
		f.Left = math.Min(f.Left, b.Left)
		f.Bottom = math.Max(f.Bottom, b.Bottom())
		f.Right = math.Max(f.Right, b.Right())
	}
	return f, nil
}

// Localize rebases an absolute point onto the frame's top-left corner.
func Localize(p Point, f Frame) LocalPoint {
	return LocalPoint{X: p.X - f.Left, Y: p.Y - f.Top}
}

// ToDevice scales a local point into backing-buffer pixels.
func ToDevice(p LocalPoint, ratio float64) DevicePoint {
	return DevicePoint{X: p.X * ratio, Y: p.Y * ratio}
}

// Place maps an anchored pair through Localize and ToDevice in one step.
func Place(a Anchored, f Frame, ratio float64) (entry, exit DevicePoint) {
	entry = ToDevice(Localize(a.Entry, f), ratio)
	exit = ToDevice(Localize(a.Exit, f), ratio)
	return entry, exit
}
