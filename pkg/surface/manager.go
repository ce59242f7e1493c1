// Package surface manages the overlay canvases connectors are drawn on.
package surface

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"linemate/pkg/css"
	"linemate/pkg/geom"
	"linemate/pkg/html"
	"linemate/pkg/route"
)

const (
	// Class tags every canvas element a Manager creates.
	Class = "linemate-canvas"
	// IDAttr holds a surface's unique id.
	IDAttr = "data-surface-id"

	DefaultZIndex = -1
)

var (
	ErrNoRoot       = errors.New("no confinement root")
	ErrInvalidRatio = errors.New("invalid device pixel ratio")
)

// PixelRatio reports how many backing-buffer pixels make up one logical
// unit on the output device.
type PixelRatio interface {
	DevicePixelRatio() float64
}

// FixedRatio is a PixelRatio that never changes.
type FixedRatio float64

func (r FixedRatio) DevicePixelRatio() float64 { return float64(r) }

// Surface is one overlay canvas and the frame it covers.
type Surface struct {
	ID     string
	Node   *html.Node
	Frame  geom.Frame
	Ratio  float64
	ZIndex int
	Canvas Canvas // nil for tagged nodes this manager did not create
}

// BufferSize returns the backing-buffer dimensions in pixels.
func (s *Surface) BufferSize() (width, height int) {
	return bufferSize(s.Frame.Width(), s.Ratio), bufferSize(s.Frame.Height(), s.Ratio)
}

// Place converts an absolute anchored pair into this surface's pixels.
func (s *Surface) Place(a geom.Anchored) route.Node {
	entry, exit := geom.Place(a, s.Frame, s.Ratio)
	return route.Node{Entry: entry, Exit: exit}
}

// SetStroke applies a logical stroke style, scaled to the buffer.
func (s *Surface) SetStroke(style StrokeStyle) {
	s.Canvas.SetStroke(style.Scaled(s.Ratio))
}

// Draw replays prims and strokes the resulting path.
func (s *Surface) Draw(prims []route.Primitive) {
	route.Replay(s.Canvas, prims)
	s.Canvas.Stroke()
}

// Placement positions a new surface's element.
type Placement struct {
	ZIndex int
	// Origin is the document position the element's left/top are
	// measured from, i.e. the content corner of its containing block.
	Origin geom.Point
}

// Manager creates surfaces under a confinement root and removes them
// again. It is not safe for concurrent use.
type Manager struct {
	root       *html.Node
	backend    Backend
	pixelRatio PixelRatio

	ratio    float64 // zero until the first Create of a drawing session
	surfaces map[*html.Node]*Surface
}

type Option func(*Manager)

func WithBackend(b Backend) Option {
	return func(m *Manager) { m.backend = b }
}

func WithPixelRatio(r PixelRatio) Option {
	return func(m *Manager) { m.pixelRatio = r }
}

// NewManager returns a manager confined to root. Surfaces rasterize with
// gg at ratio 1 unless options say otherwise.
func NewManager(root *html.Node, opts ...Option) *Manager {
	m := &Manager{
		root:       root,
		backend:    GGBackend{},
		pixelRatio: FixedRatio(1),
		surfaces:   make(map[*html.Node]*Surface),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Root() *html.Node { return m.root }

// Confine moves future surfaces under root. Existing surfaces stay where
// they are.
func (m *Manager) Confine(root *html.Node) {
	m.root = root
}

// Ratio returns the cached ratio of the current drawing session, or zero
// if no surface has been created since the last Clear.
func (m *Manager) Ratio() float64 { return m.ratio }

func (m *Manager) currentRatio() (float64, error) {
	if m.ratio > 0 {
		return m.ratio, nil
	}
	r := m.pixelRatio.DevicePixelRatio()
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidRatio, r)
	}
	m.ratio = r
	return r, nil
}

// Create inserts a new canvas covering frame and returns its surface.
func (m *Manager) Create(frame geom.Frame, p Placement) (*Surface, error) {
	if m.root == nil {
		return nil, ErrNoRoot
	}
	ratio, err := m.currentRatio()
	if err != nil {
		return nil, err
	}

	w, h := bufferSize(frame.Width(), ratio), bufferSize(frame.Height(), ratio)
	id := uuid.NewString()
	style := fmt.Sprintf("position:absolute;left:%s;top:%s;width:%s;height:%s;z-index:%d",
		css.FormatLength(frame.Left-p.Origin.X),
		css.FormatLength(frame.Top-p.Origin.Y),
		css.FormatLength(frame.Width()),
		css.FormatLength(frame.Height()),
		p.ZIndex)
	node := html.NewElement("canvas", map[string]string{
		"class":  Class,
		IDAttr:   id,
		"width":  strconv.Itoa(w),
		"height": strconv.Itoa(h),
		"style":  style,
	})

	s := &Surface{
		ID:     id,
		Node:   node,
		Frame:  frame,
		Ratio:  ratio,
		ZIndex: p.ZIndex,
		Canvas: m.backend.NewCanvas(w, h),
	}
	m.root.AddChild(node)
	m.surfaces[node] = s
	return s, nil
}

// Detach removes a single surface from the document.
func (m *Manager) Detach(s *Surface) {
	if s.Node.Parent != nil {
		s.Node.Parent.RemoveChild(s.Node)
	}
	delete(m.surfaces, s.Node)
}

// Clear removes every tagged surface under the confinement root and
// forgets the cached ratio. It returns how many were removed.
func (m *Manager) Clear() int {
	m.ratio = 0
	if m.root == nil {
		return 0
	}
	tagged := m.tagged()
	for _, n := range tagged {
		n.Parent.RemoveChild(n)
		delete(m.surfaces, n)
	}
	return len(tagged)
}

// Surfaces lists the tagged surfaces under the confinement root in
// document order.
func (m *Manager) Surfaces() []*Surface {
	if m.root == nil {
		return nil
	}
	var out []*Surface
	for _, n := range m.tagged() {
		if s, ok := m.surfaces[n]; ok {
			out = append(out, s)
			continue
		}
		id, _ := n.GetAttribute(IDAttr)
		out = append(out, &Surface{ID: id, Node: n})
	}
	return out
}

// Lookup returns the surface created for node, if any.
func (m *Manager) Lookup(node *html.Node) (*Surface, bool) {
	s, ok := m.surfaces[node]
	return s, ok
}

func (m *Manager) tagged() []*html.Node {
	var nodes []*html.Node
	m.root.Walk(func(n *html.Node) bool {
		if n.TagName == "canvas" && n.HasClass(Class) {
			nodes = append(nodes, n)
		}
		return false
	})
	return nodes
}

func bufferSize(logical, ratio float64) int {
	n := int(math.Ceil(logical * ratio))
	if n < 1 {
		n = 1
	}
	return n
}
