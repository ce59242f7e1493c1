package linemate

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"linemate/pkg/css"
	"linemate/pkg/geom"
	"linemate/pkg/html"
	"linemate/pkg/layout"
	"linemate/pkg/route"
	"linemate/pkg/surface"
)

const page = `<html><body>
<div id="a" class="node" style="position:absolute; left:0; top:0; width:1px; height:1px"></div>
<div id="b" class="node" style="position:absolute; left:400px; top:200px; width:100px; height:100px"></div>
<div id="c" class="node" style="position:absolute; left:0; top:250px; width:50px; height:50px"></div>
<div id="wrap" style="position:relative; margin-top:600px; height:10px"></div>
</body></html>`

func newSession(t *testing.T, ratio float64) *Session {
	t.Helper()
	doc, err := html.Parse(page)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return NewSession(doc, layout.NewLive(doc, 800, 600),
		surface.WithBackend(surface.RecorderBackend{}),
		surface.WithPixelRatio(surface.FixedRatio(ratio)))
}

func recorder(t *testing.T, s *surface.Surface) *surface.Recorder {
	t.Helper()
	rec, ok := s.Canvas.(*surface.Recorder)
	if !ok {
		t.Fatalf("surface canvas is %T, want *surface.Recorder", s.Canvas)
	}
	return rec
}

func byID(t *testing.T, s *Session, id string) *html.Node {
	t.Helper()
	n := s.Document().ElementByID(id)
	if n == nil {
		t.Fatalf("no element #%s", id)
	}
	return n
}

func TestConnectSizesSurfaceToFrame(t *testing.T) {
	s := newSession(t, 1)
	surf, err := s.Connect([]*html.Node{byID(t, s, "a"), byID(t, s, "b")})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if surf.Frame.Width() != 500 || surf.Frame.Height() != 300 {
		t.Errorf("frame = %v, want 500x300", surf.Frame)
	}
	if surf.ZIndex != -1 {
		t.Errorf("z-index = %d, want -1", surf.ZIndex)
	}
	style, _ := surf.Node.GetAttribute("style")
	for _, want := range []string{"left:0px", "top:0px", "width:500px", "height:300px", "z-index:-1"} {
		if !strings.Contains(style, want) {
			t.Errorf("style %q missing %q", style, want)
		}
	}
	if surf.Node.Parent != s.Document().Body() {
		t.Errorf("surface not inserted under body")
	}
}

func TestClearRemovesSurfaces(t *testing.T) {
	s := newSession(t, 1)
	for i := 0; i < 2; i++ {
		if _, err := s.Connect([]string{"#a", "#b"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(s.Surfaces()); got != 2 {
		t.Fatalf("surfaces = %d, want 2", got)
	}

	s.Clear()
	if got := len(s.Surfaces()); got != 0 {
		t.Errorf("surfaces after Clear = %d, want 0", got)
	}
	s.Clear()
	if got := len(s.Surfaces()); got != 0 {
		t.Errorf("surfaces after second Clear = %d, want 0", got)
	}
	if byID(t, s, "a").Parent == nil {
		t.Errorf("Clear removed a connected element")
	}
}

func TestConfigureDefaultsAndOverride(t *testing.T) {
	s := newSession(t, 1)
	got, err := s.Configure(Options{StrokeColor: "orange"})
	if err != nil {
		t.Fatal(err)
	}
	if got.StrokeColor != "orange" {
		t.Errorf("Configure returned color %q, want orange", got.StrokeColor)
	}
	if got.StrokeWidth != 1 || got.Strategy != "direct" || *got.ZIndex != -1 {
		t.Errorf("Configure lost untouched defaults: %+v", got)
	}

	orange, _ := css.ParseColor("orange")
	red, _ := css.ParseColor("red")

	surf, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	if c := recorder(t, surf).Style().Color; c != orange {
		t.Errorf("default stroke color = %v, want %v", c, orange)
	}

	surf, err = s.Connect([]string{"#a", "#b"}, Options{StrokeColor: "red"})
	if err != nil {
		t.Fatal(err)
	}
	if c := recorder(t, surf).Style().Color; c != red {
		t.Errorf("override stroke color = %v, want %v", c, red)
	}
	if s.Defaults().StrokeColor != "orange" {
		t.Errorf("per-call override leaked into defaults")
	}
}

func TestConfigureRejectsInvalidOverrides(t *testing.T) {
	s := newSession(t, 1)
	before := s.Defaults()

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"anchor", Options{EntryAnchor: "middle"}, ErrInvalidAnchor},
		{"strategy", Options{Strategy: "zigzag"}, ErrInvalidStrategy},
		{"width", Options{StrokeWidth: -2}, ErrInvalidOptions},
		{"cap", Options{LineCap: "pointy"}, ErrInvalidOptions},
		{"color", Options{StrokeColor: "not-a-color"}, ErrInvalidOptions},
		{"dash", Options{DashPattern: []float64{0, 0}}, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Configure(tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if d := cmp.Diff(before, s.Defaults()); d != "" {
		t.Errorf("defaults changed by invalid overrides (-before +after):\n%s", d)
	}
}

func TestInvalidOptionsCreateNoSurface(t *testing.T) {
	s := newSession(t, 1)
	_, err := s.Connect(".node", Options{ExitAnchor: "nowhere"})
	if !errors.Is(err, ErrInvalidAnchor) {
		t.Fatalf("err = %v, want ErrInvalidAnchor", err)
	}
	if !strings.Contains(err.Error(), "exitAnchor") {
		t.Errorf("error %q does not name the field", err)
	}
	if len(s.Surfaces()) != 0 {
		t.Errorf("surface created despite invalid options")
	}
}

func TestClosedAndOpenEdgeCounts(t *testing.T) {
	s := newSession(t, 1)

	open, err := s.Connect(".node")
	if err != nil {
		t.Fatal(err)
	}
	closed, err := s.ConnectClosed(".node")
	if err != nil {
		t.Fatal(err)
	}
	if got := route.Segments(recorder(t, open).Ops); got != 2 {
		t.Errorf("open segments = %d, want 2", got)
	}
	if got := route.Segments(recorder(t, closed).Ops); got != 3 {
		t.Errorf("closed segments = %d, want 3", got)
	}
	if recorder(t, closed).Strokes != 1 {
		t.Errorf("closed path stroked %d times, want 1", recorder(t, closed).Strokes)
	}
}

func TestOrthogonalStrategies(t *testing.T) {
	s := newSession(t, 1)
	for _, name := range []string{"square-v", "square-h", "orthogonal-vertical", "orthogonal-horizontal"} {
		surf, err := s.Connect([]string{"#a", "#b"}, Options{Strategy: name})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := route.Segments(recorder(t, surf).Ops); got != 3 {
			t.Errorf("%s: segments = %d, want 3", name, got)
		}
	}
}

func TestRatioAppliedOnce(t *testing.T) {
	s := newSession(t, 2)
	surf, err := s.Connect([]string{"#a", "#b"}, Options{StrokeWidth: 1.5})
	if err != nil {
		t.Fatal(err)
	}

	want := []route.Primitive{
		{Op: route.MoveTo, P: geom.DevicePoint{X: 1, Y: 1}},
		{Op: route.LineTo, P: geom.DevicePoint{X: 900, Y: 500}},
		{Op: route.MoveTo, P: geom.DevicePoint{X: 900, Y: 500}},
	}
	rec := recorder(t, surf)
	if d := cmp.Diff(want, rec.Ops); d != "" {
		t.Errorf("primitives (-want +got):\n%s", d)
	}
	if rec.Width != 1000 || rec.Height != 600 {
		t.Errorf("buffer = %dx%d, want 1000x600", rec.Width, rec.Height)
	}
	if w := rec.Style().Width; w != 3 {
		t.Errorf("stroke width = %g, want 3", w)
	}
	if style, _ := surf.Node.GetAttribute("style"); !strings.Contains(style, "width:500px") {
		t.Errorf("logical size scaled: %q", style)
	}
}

func TestAnchorsSelectEntryAndExit(t *testing.T) {
	s := newSession(t, 1)
	surf, err := s.Connect([]string{"#a", "#b"}, Options{EntryAnchor: "topLeft", ExitAnchor: "bottomRight"})
	if err != nil {
		t.Fatal(err)
	}
	want := []route.Primitive{
		{Op: route.MoveTo, P: geom.DevicePoint{X: 1, Y: 1}},
		{Op: route.LineTo, P: geom.DevicePoint{X: 400, Y: 200}},
		{Op: route.MoveTo, P: geom.DevicePoint{X: 500, Y: 300}},
	}
	if d := cmp.Diff(want, recorder(t, surf).Ops); d != "" {
		t.Errorf("primitives (-want +got):\n%s", d)
	}
}

func TestDashedStroke(t *testing.T) {
	s := newSession(t, 1)
	plain, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	if recorder(t, plain).Style().Dash != nil {
		t.Errorf("undashed connector got a dash pattern")
	}

	dashed, err := s.Connect([]string{"#a", "#b"}, Options{Dashed: Bool(true), DashOffset: Float(2)})
	if err != nil {
		t.Fatal(err)
	}
	st := recorder(t, dashed).Style()
	if d := cmp.Diff([]float64{5, 15}, st.Dash); d != "" {
		t.Errorf("dash (-want +got):\n%s", d)
	}
	if st.DashOffset != 2 {
		t.Errorf("dash offset = %g, want 2", st.DashOffset)
	}
}

func TestZeroDashOffsetOverridesDefault(t *testing.T) {
	s := newSession(t, 1)
	if _, err := s.Configure(Options{Dashed: Bool(true), DashOffset: Float(7)}); err != nil {
		t.Fatal(err)
	}

	inherited, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	if got := recorder(t, inherited).Style().DashOffset; got != 7 {
		t.Errorf("inherited dash offset = %g, want 7", got)
	}

	zeroed, err := s.Connect([]string{"#a", "#b"}, Options{DashOffset: Float(0)})
	if err != nil {
		t.Fatal(err)
	}
	if got := recorder(t, zeroed).Style().DashOffset; got != 0 {
		t.Errorf("dash offset = %g, want 0", got)
	}
	if got := *s.Defaults().DashOffset; got != 7 {
		t.Errorf("per-call override changed the default to %g", got)
	}
}

func TestElementResolutionErrors(t *testing.T) {
	s := newSession(t, 1)
	tests := []struct {
		name     string
		elements any
		want     error
	}{
		{"empty", []*html.Node{}, ErrNoElements},
		{"nil", nil, ErrNoElements},
		{"single node", []*html.Node{byID(t, s, "a")}, ErrInsufficientElements},
		{"single selector match", "#a", ErrInsufficientElements},
		{"no match", ".missing", ErrInvalidQuery},
		{"bad selector", "div:hover", ErrInvalidQuery},
		{"missing in list", []string{"#a", "#missing"}, ErrInvalidQuery},
		{"unsupported type", 42, ErrInvalidElements},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Connect(tt.elements); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if len(s.Surfaces()) != 0 {
		t.Errorf("failed calls left %d surfaces", len(s.Surfaces()))
	}
}

func TestUnmeasuredElement(t *testing.T) {
	s := newSession(t, 1)
	detached := html.NewElement("div", nil)
	_, err := s.Connect([]*html.Node{byID(t, s, "a"), detached})
	if !errors.Is(err, ErrUnmeasured) || !errors.Is(err, layout.ErrNotRendered) {
		t.Errorf("err = %v, want ErrUnmeasured wrapping layout.ErrNotRendered", err)
	}
	if len(s.Surfaces()) != 0 {
		t.Errorf("surface created for unmeasurable element")
	}
}

func TestConnectCustom(t *testing.T) {
	s := newSession(t, 1)
	var seen []route.Node
	surf, err := s.ConnectCustom([]string{"#a", "#b"}, Options{}, func(c surface.Canvas, nodes []route.Node) error {
		seen = nodes
		c.MoveTo(nodes[0].Exit)
		c.LineTo(geom.DevicePoint{X: nodes[1].Entry.X, Y: nodes[0].Exit.Y})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[1].Entry != (geom.DevicePoint{X: 450, Y: 250}) {
		t.Errorf("custom nodes = %v", seen)
	}
	rec := recorder(t, surf)
	if len(rec.Ops) != 2 || rec.Strokes != 1 {
		t.Errorf("custom drawing recorded %d ops, %d strokes", len(rec.Ops), rec.Strokes)
	}
}

func TestConnectCustomFailureDetaches(t *testing.T) {
	s := newSession(t, 1)
	boom := errors.New("boom")
	_, err := s.ConnectCustom(".node", Options{}, func(surface.Canvas, []route.Node) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(s.Surfaces()) != 0 {
		t.Errorf("failed custom stroke left a surface behind")
	}
}

func TestConnectRouted(t *testing.T) {
	s := newSession(t, 1)
	calls := 0
	r := route.RouterFunc(func(a, b geom.DevicePoint) []route.Primitive {
		calls++
		return []route.Primitive{{Op: route.LineTo, P: b}}
	})
	if _, err := s.ConnectRouted(".node", Options{Strategy: "square-v"}, r); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("router called %d times, want 2", calls)
	}
}

func TestConfine(t *testing.T) {
	s := newSession(t, 1)
	if err := s.Confine("#wrap"); err != nil {
		t.Fatal(err)
	}
	surf, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	wrap := byID(t, s, "wrap")
	if surf.Node.Parent != wrap {
		t.Fatalf("surface parent = <%s>, want #wrap", surf.Node.Parent.TagName)
	}
	// #wrap starts at y=600, so the surface sits above its origin.
	if style, _ := surf.Node.GetAttribute("style"); !strings.Contains(style, "top:-600px") {
		t.Errorf("style %q not placed relative to #wrap", style)
	}

	if err := s.Confine("#missing"); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("err = %v, want ErrInvalidQuery", err)
	}
	if s.Root() != wrap {
		t.Errorf("failed Confine changed the root")
	}

	s.Clear()
	if len(wrap.Children) != 0 {
		t.Errorf("Clear left surfaces under the confinement root")
	}
	if err := s.Confine(s.Document().Body()); err != nil {
		t.Errorf("Confine(node): %v", err)
	}
}

func TestLayoutReadPerDraw(t *testing.T) {
	s := newSession(t, 1)
	first, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	b := byID(t, s, "b")
	style, _ := b.GetAttribute("style")
	b.SetAttribute("style", strings.Replace(style, "left:400px", "left:600px", 1))

	second, err := s.Connect([]string{"#a", "#b"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Frame.Width() != 500 || second.Frame.Width() != 700 {
		t.Errorf("frame widths = %g, %g; want 500, 700", first.Frame.Width(), second.Frame.Width())
	}
}
