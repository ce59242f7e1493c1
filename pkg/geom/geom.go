package geom

import "fmt"

// Box is an element's layout rectangle in document units.
type Box struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

func (b Box) Right() float64  { return b.Left + b.Width }
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Frame is an absolute rectangle. Top <= Bottom and Left <= Right.
type Frame struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (f Frame) Width() float64  { return f.Right - f.Left }
func (f Frame) Height() float64 { return f.Bottom - f.Top }

// Contains reports whether the box lies entirely inside the frame.
func (f Frame) Contains(b Box) bool {
	return b.Left >= f.Left && b.Top >= f.Top && b.Right() <= f.Right && b.Bottom() <= f.Bottom
}

func (f Frame) String() string {
	return fmt.Sprintf("frame(t=%g r=%g b=%g l=%g)", f.Top, f.Right, f.Bottom, f.Left)
}

// Point is a position in absolute document coordinates.
type Point struct {
	X float64
	Y float64
}

// LocalPoint is a position relative to a surface's top-left corner, in
// logical (unscaled) units.
type LocalPoint struct {
	X float64
	Y float64
}

// DevicePoint is a position in a surface's backing buffer, i.e. a
// LocalPoint multiplied by the surface scale ratio.
type DevicePoint struct {
	X float64
	Y float64
}

func (p Point) String() string       { return fmt.Sprintf("abs(%g,%g)", p.X, p.Y) }
func (p LocalPoint) String() string  { return fmt.Sprintf("local(%g,%g)", p.X, p.Y) }
func (p DevicePoint) String() string { return fmt.Sprintf("dev(%g,%g)", p.X, p.Y) }

// Anchored is an element's entry and exit points in absolute coordinates.
type Anchored struct {
	Entry Point
	Exit  Point
}

// AnchorBox resolves the entry and exit anchors of a box.
func AnchorBox(b Box, entry, exit Anchor) Anchored {
	return Anchored{Entry: Resolve(b, entry), Exit: Resolve(b, exit)}
}
