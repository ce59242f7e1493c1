package route

import (
	"errors"
	"fmt"
	"math"

	"linemate/pkg/geom"
)

var ErrInvalidStrategy = errors.New("invalid routing strategy")

// Strategy is one of the built-in routers.
type Strategy int

const (
	// Direct draws a straight line between the two points.
	Direct Strategy = iota
	// OrthogonalVertical elbows through the vertical midpoint.
	OrthogonalVertical
	// OrthogonalHorizontal elbows through the horizontal midpoint.
	OrthogonalHorizontal
)

var strategyNames = map[string]Strategy{
	"direct":                Direct,
	"shortest":              Direct,
	"orthogonal-vertical":   OrthogonalVertical,
	"square-v":              OrthogonalVertical,
	"orthogonal-horizontal": OrthogonalHorizontal,
	"square-h":              OrthogonalHorizontal,
}

// ParseStrategy accepts both the canonical names and the short aliases
// shortest, square-v and square-h.
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyNames[name]; ok {
		return s, nil
	}
	return Direct, fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
}

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case OrthogonalVertical:
		return "orthogonal-vertical"
	case OrthogonalHorizontal:
		return "orthogonal-horizontal"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func (s Strategy) Valid() bool {
	return s >= Direct && s <= OrthogonalHorizontal
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrategy, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Connect implements Router.
func (s Strategy) Connect(a, b geom.DevicePoint) []Primitive {
	switch s {
	case Direct:
		return []Primitive{{LineTo, b}}
	case OrthogonalVertical:
		return elbowVertical(a, b)
	case OrthogonalHorizontal:
		return elbowHorizontal(a, b)
	}
	panic(fmt.Sprintf("route: unknown %v", s))
}

// Each leg of an elbow is followed by a MoveTo onto its own end point so
// the corners are stroked as separate segments rather than joined.

func elbowVertical(a, b geom.DevicePoint) []Primitive {
	midY := math.Min(a.Y, b.Y) + math.Abs(a.Y-b.Y)/2
	return []Primitive{
		line(a.X, midY), move(a.X, midY),
		line(b.X, midY), move(b.X, midY),
		line(b.X, b.Y), move(b.X, b.Y),
	}
}

func elbowHorizontal(a, b geom.DevicePoint) []Primitive {
	midX := math.Min(a.X, b.X) + math.Abs(a.X-b.X)/2
	return []Primitive{
		line(midX, a.Y), move(midX, a.Y),
		line(midX, b.Y), move(midX, b.Y),
		line(b.X, b.Y), move(b.X, b.Y),
	}
}
