package render

import (
	"image/color"
	"testing"

	"linemate/pkg/html"
	"linemate/pkg/layout"
	"linemate/pkg/linemate"
	"linemate/pkg/surface"
)

const page = `<body style="background-color: white">
<div id="a" style="position:absolute; left:10px; top:10px; width:20px; height:20px; background-color:blue"></div>
<div id="b" style="position:absolute; left:110px; top:10px; width:20px; height:20px; background-color:blue"></div>
</body>`

func setup(t *testing.T, ratio float64) (*linemate.Session, *layout.Live) {
	t.Helper()
	doc, err := html.Parse(page)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	live := layout.NewLive(doc, 200, 100)
	s := linemate.NewSession(doc, live, surface.WithPixelRatio(surface.FixedRatio(ratio)))
	return s, live
}

func render(t *testing.T, s *linemate.Session, live *layout.Live) *Renderer {
	t.Helper()
	live.Refresh()
	r := NewRenderer(200, 100, 1)
	r.Render(live.Boxes(), s.Surfaces())
	return r
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xe000 && g < 0x2000 && b < 0x2000
}

func isBlue(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return b > 0xe000 && r < 0x2000 && g < 0x2000
}

func TestRenderConnectorBelowElements(t *testing.T) {
	s, live := setup(t, 1)
	if _, err := s.Connect([]string{"#a", "#b"}, linemate.Options{StrokeColor: "red", StrokeWidth: 4}); err != nil {
		t.Fatal(err)
	}
	img := render(t, s, live).Image()

	if c := img.At(70, 20); !isRed(c) {
		t.Errorf("pixel between elements = %v, want red connector", c)
	}
	if c := img.At(20, 20); !isBlue(c) {
		t.Errorf("pixel inside element = %v, want element above connector", c)
	}
	if r, g, b, _ := img.At(70, 60).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background pixel = %x,%x,%x, want white", r, g, b)
	}
}

func TestRenderPositiveZIndexOnTop(t *testing.T) {
	s, live := setup(t, 1)
	opts := linemate.Options{StrokeColor: "red", StrokeWidth: 4, ZIndex: linemate.Int(1)}
	if _, err := s.Connect([]string{"#a", "#b"}, opts); err != nil {
		t.Fatal(err)
	}
	img := render(t, s, live).Image()
	if c := img.At(20, 20); !isRed(c) {
		t.Errorf("pixel inside element = %v, want connector on top", c)
	}
}

func TestRenderScaledSurface(t *testing.T) {
	s, live := setup(t, 2)
	if _, err := s.Connect([]string{"#a", "#b"}, linemate.Options{StrokeColor: "red", StrokeWidth: 4}); err != nil {
		t.Fatal(err)
	}
	img := render(t, s, live).Image()
	if c := img.At(70, 20); !isRed(c) {
		t.Errorf("pixel between elements = %v, want red connector", c)
	}
	if c := img.At(70, 26); isRed(c) {
		t.Errorf("pixel below the stroke is red; surface scaled twice")
	}
}

func TestRenderClearedSurfacesDisappear(t *testing.T) {
	s, live := setup(t, 1)
	if _, err := s.Connect([]string{"#a", "#b"}, linemate.Options{StrokeColor: "red", StrokeWidth: 4}); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	img := render(t, s, live).Image()
	if c := img.At(70, 20); isRed(c) {
		t.Errorf("cleared connector still painted")
	}
}

func TestRenderBordersAndText(t *testing.T) {
	doc, err := html.Parse(`<div style="width:50px; height:30px; border: 3px solid green; color: black">x</div>`)
	if err != nil {
		t.Fatal(err)
	}
	le := layout.NewLayoutEngine(100, 100)
	r := NewRenderer(100, 100, 1)
	r.Render(le.Layout(doc), nil)
	img := r.Image()
	if _, g, _, _ := img.At(1, 15).RGBA(); g < 0x7000 {
		t.Errorf("left border pixel not green")
	}
	if rr, g, b, _ := img.At(30, 15).RGBA(); rr != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("interior pixel painted")
	}
}
