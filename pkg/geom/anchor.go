package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidAnchor is returned for anchor names outside the fixed set.
var ErrInvalidAnchor = errors.New("invalid anchor label")

// Anchor names a point on a box's perimeter or its center.
type Anchor int

const (
	Center Anchor = iota
	TopLeft
	Top
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
)

var anchorNames = [...]string{
	Center:      "center",
	TopLeft:     "topLeft",
	Top:         "top",
	TopRight:    "topRight",
	Right:       "right",
	BottomRight: "bottomRight",
	Bottom:      "bottom",
	BottomLeft:  "bottomLeft",
	Left:        "left",
}

// Anchors lists every label in declaration order.
func Anchors() []Anchor {
	return []Anchor{Center, TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}
}

func (a Anchor) String() string {
	if a.Valid() {
		return anchorNames[a]
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

func (a Anchor) Valid() bool {
	return a >= Center && a <= Left
}

// ParseAnchor maps a label name to its Anchor.
func ParseAnchor(name string) (Anchor, error) {
	for i, n := range anchorNames {
		if n == name {
			return Anchor(i), nil
		}
	}
	return Center, fmt.Errorf("%w: %q", ErrInvalidAnchor, name)
}

func (a Anchor) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAnchor, int(a))
	}
	return []byte(anchorNames[a]), nil
}

func (a *Anchor) UnmarshalText(text []byte) error {
	parsed, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Resolve returns the absolute position of anchor a on box b.
// Callers validate a beforehand; an out-of-range value panics.
func Resolve(b Box, a Anchor) Point {
	hc := b.Left + b.Width/2
	vc := b.Top + b.Height/2

	switch a {
	case Center:
		return Point{hc, vc}
	case TopLeft:
		return Point{b.Left, b.Top}
	case Top:
		return Point{hc, b.Top}
	case TopRight:
		return Point{b.Right(), b.Top}
	case Right:
		return Point{b.Right(), vc}
	case BottomRight:
		return Point{b.Right(), b.Bottom()}
	case Bottom:
		return Point{hc, b.Bottom()}
	case BottomLeft:
		return Point{b.Left, b.Bottom()}
	case Left:
		return Point{b.Left, vc}
	}
	panic(fmt.Sprintf("geom: unresolvable %v", a))
}
