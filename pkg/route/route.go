// Package route turns a sequence of anchored nodes into line-drawing
// primitives for a surface.
package route

import (
	"errors"
	"fmt"

	"linemate/pkg/geom"
)

var (
	ErrNoNodes           = errors.New("no nodes provided")
	ErrInsufficientNodes = errors.New("at least two nodes are required")
)

// Op is a drawing instruction.
type Op int

const (
	MoveTo Op = iota
	LineTo
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Primitive is one instruction with its target point in surface pixels.
type Primitive struct {
	Op Op
	P  geom.DevicePoint
}

func (p Primitive) String() string {
	return fmt.Sprintf("%v(%g,%g)", p.Op, p.P.X, p.P.Y)
}

func move(x, y float64) Primitive { return Primitive{MoveTo, geom.DevicePoint{X: x, Y: y}} }
func line(x, y float64) Primitive { return Primitive{LineTo, geom.DevicePoint{X: x, Y: y}} }

// Node is an element's entry and exit point after localization and scaling.
type Node struct {
	Entry geom.DevicePoint
	Exit  geom.DevicePoint
}

// Router draws the connection between the exit of one node (a) and the
// entry of the next (b). The pen is at a when Connect is called.
type Router interface {
	Connect(a, b geom.DevicePoint) []Primitive
}

// RouterFunc adapts a plain function to Router.
type RouterFunc func(a, b geom.DevicePoint) []Primitive

func (f RouterFunc) Connect(a, b geom.DevicePoint) []Primitive { return f(a, b) }

// Options control a single Route call.
type Options struct {
	Router Router // nil means Direct
	Closed bool
}

// Route emits the primitives that connect nodes in order. The pen starts at
// the first node's exit; after each connection it jumps to the reached
// node's exit so the next stroke does not join the previous one. A closed
// route adds a final connection from the last exit back to the first entry.
func Route(nodes []Node, opts Options) ([]Primitive, error) {
	switch len(nodes) {
	case 0:
		return nil, ErrNoNodes
	case 1:
		return nil, ErrInsufficientNodes
	}

	r := opts.Router
	if r == nil {
		r = Direct
	}

	prims := []Primitive{{MoveTo, nodes[0].Exit}}
	for i := 1; i < len(nodes); i++ {
		prims = append(prims, r.Connect(nodes[i-1].Exit, nodes[i].Entry)...)
		prims = append(prims, Primitive{MoveTo, nodes[i].Exit})
	}
	if opts.Closed {
		prims = append(prims, r.Connect(nodes[len(nodes)-1].Exit, nodes[0].Entry)...)
	}
	return prims, nil
}

// Segments counts the LineTo primitives in prims.
func Segments(prims []Primitive) int {
	n := 0
	for _, p := range prims {
		if p.Op == LineTo {
			n++
		}
	}
	return n
}

// Edges is the number of connections Route draws for n nodes.
func Edges(n int, closed bool) int {
	if n < 2 {
		return 0
	}
	if closed {
		return n
	}
	return n - 1
}

// Drawer is the subset of a drawing surface Replay needs.
type Drawer interface {
	MoveTo(p geom.DevicePoint)
	LineTo(p geom.DevicePoint)
}

// Replay issues prims against d in order.
func Replay(d Drawer, prims []Primitive) {
	for _, p := range prims {
		switch p.Op {
		case MoveTo:
			d.MoveTo(p.P)
		case LineTo:
			d.LineTo(p.P)
		}
	}
}
