// Package linemate draws connector lines between document elements on
// overlay surfaces.
package linemate

import (
	"fmt"

	"linemate/pkg/css"
	"linemate/pkg/geom"
	"linemate/pkg/html"
	"linemate/pkg/route"
	"linemate/pkg/surface"
)

// Measurer reports an element's current layout box.
type Measurer interface {
	Measure(n *html.Node) (geom.Box, error)
}

// Refresher is implemented by measurers that must re-run layout before
// boxes are read. Refresh is called once per draw call.
type Refresher interface {
	Refresh()
}

// Placer is implemented by measurers that know where an absolutely
// positioned child of parent is measured from. Without it surfaces are
// placed as if the confinement root sat at the document origin.
type Placer interface {
	PlacementOrigin(parent *html.Node) geom.Point
}

// CustomFunc draws its own path on c. Node points are already in c's
// pixels. The stroke is committed after it returns.
type CustomFunc func(c surface.Canvas, nodes []route.Node) error

// Session holds the defaults and surfaces of one document. A Session is
// not safe for concurrent use.
type Session struct {
	doc      *html.Document
	measurer Measurer
	surfaces *surface.Manager
	defaults Options
}

// NewSession returns a session confined to the document body.
func NewSession(doc *html.Document, m Measurer, opts ...surface.Option) *Session {
	return &Session{
		doc:      doc,
		measurer: m,
		surfaces: surface.NewManager(doc.Body(), opts...),
		defaults: DefaultOptions(),
	}
}

func (s *Session) Document() *html.Document { return s.doc }

// Defaults returns a copy of the session defaults.
func (s *Session) Defaults() Options { return s.defaults.clone() }

// Configure merges overrides into the session defaults and returns the
// result. Invalid overrides leave the defaults untouched.
func (s *Session) Configure(overrides Options) (Options, error) {
	if err := overrides.Validate(); err != nil {
		return s.Defaults(), err
	}
	s.defaults = Merge(s.defaults, overrides)
	return s.Defaults(), nil
}

// Confine sets the element surfaces are inserted under. target is an
// *html.Node or a selector.
func (s *Session) Confine(target any) error {
	switch t := target.(type) {
	case *html.Node:
		if t == nil {
			return fmt.Errorf("%w: nil confinement root", ErrInvalidQuery)
		}
		s.surfaces.Confine(t)
	case string:
		n, err := css.Query(s.doc.Root, t)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidQuery, t, err)
		}
		if n == nil {
			return fmt.Errorf("%w: %q", ErrInvalidQuery, t)
		}
		s.surfaces.Confine(n)
	default:
		return fmt.Errorf("%w: cannot confine to %T", ErrInvalidElements, target)
	}
	return nil
}

func (s *Session) Root() *html.Node { return s.surfaces.Root() }

// Clear removes every surface under the confinement root.
func (s *Session) Clear() {
	s.surfaces.Clear()
}

func (s *Session) Surfaces() []*surface.Surface { return s.surfaces.Surfaces() }

// Connect draws an open path through elements in order.
func (s *Session) Connect(elements any, opts ...Options) (*surface.Surface, error) {
	return s.draw(elements, opts, false, nil)
}

// ConnectClosed draws a path through elements and back to the first one.
func (s *Session) ConnectClosed(elements any, opts ...Options) (*surface.Surface, error) {
	return s.draw(elements, opts, true, nil)
}

// ConnectRouted draws an open path using r instead of the configured
// strategy.
func (s *Session) ConnectRouted(elements any, opts Options, r route.Router) (*surface.Surface, error) {
	return s.draw(elements, []Options{opts}, false, r)
}

// ConnectCustom lets fn draw on a prepared surface. If fn fails the
// surface is removed again.
func (s *Session) ConnectCustom(elements any, opts Options, fn CustomFunc) (*surface.Surface, error) {
	p, err := s.prepare(elements, []Options{opts})
	if err != nil {
		return nil, err
	}
	surf, nodes, err := s.open(p)
	if err != nil {
		return nil, err
	}
	if err := fn(surf.Canvas, nodes); err != nil {
		s.surfaces.Detach(surf)
		return nil, fmt.Errorf("custom stroke: %w", err)
	}
	surf.Canvas.Stroke()
	return surf, nil
}

func (s *Session) draw(elements any, opts []Options, closed bool, r route.Router) (*surface.Surface, error) {
	p, err := s.prepare(elements, opts)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = p.settings.strategy
	}

	surf, nodes, err := s.open(p)
	if err != nil {
		return nil, err
	}
	prims, err := route.Route(nodes, route.Options{Router: r, Closed: closed})
	if err != nil {
		s.surfaces.Detach(surf)
		return nil, err
	}
	surf.Draw(prims)
	return surf, nil
}

// prepared is everything a draw call needs before a surface exists.
type prepared struct {
	settings settings
	anchored []geom.Anchored
	frame    geom.Frame
}

func (s *Session) prepare(elements any, overrides []Options) (*prepared, error) {
	merged := s.defaults
	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		merged = Merge(merged, o)
	}
	st, err := merged.settings()
	if err != nil {
		return nil, err
	}

	nodes, err := s.resolve(elements)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, ErrNoElements
	case 1:
		return nil, ErrInsufficientElements
	}

	if r, ok := s.measurer.(Refresher); ok {
		r.Refresh()
	}
	boxes := make([]geom.Box, len(nodes))
	anchored := make([]geom.Anchored, len(nodes))
	for i, n := range nodes {
		b, err := s.measurer.Measure(n)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrUnmeasured, i, err)
		}
		boxes[i] = b
		anchored[i] = geom.AnchorBox(b, st.entry, st.exit)
	}
	frame, err := geom.ComputeFrame(boxes)
	if err != nil {
		return nil, err
	}
	return &prepared{settings: st, anchored: anchored, frame: frame}, nil
}

// open creates the surface for p, applies its stroke style and returns the
// anchored nodes in surface pixels.
func (s *Session) open(p *prepared) (*surface.Surface, []route.Node, error) {
	placement := surface.Placement{ZIndex: p.settings.zIndex}
	if pl, ok := s.measurer.(Placer); ok && s.surfaces.Root() != nil {
		placement.Origin = pl.PlacementOrigin(s.surfaces.Root())
	}
	surf, err := s.surfaces.Create(p.frame, placement)
	if err != nil {
		return nil, nil, err
	}
	surf.SetStroke(p.settings.stroke)

	nodes := make([]route.Node, len(p.anchored))
	for i, a := range p.anchored {
		nodes[i] = surf.Place(a)
	}
	return surf, nodes, nil
}
