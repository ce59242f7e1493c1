package layout

import (
	"errors"
	"testing"

	"linemate/pkg/geom"
	"linemate/pkg/html"
)

func parse(t *testing.T, s string) *html.Document {
	t.Helper()
	doc, err := html.Parse(s)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func TestLayoutEngine_SingleBox(t *testing.T) {
	doc := parse(t, `<div style="width: 200px; height: 100px;"></div>`)
	boxes := NewLayoutEngine(800, 600).Layout(doc)
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}
	if boxes[0].Width != 200 || boxes[0].Height != 100 {
		t.Errorf("expected 200x100, got %gx%g", boxes[0].Width, boxes[0].Height)
	}
}

func TestLayoutEngine_VerticalStacking(t *testing.T) {
	doc := parse(t, `<div style="height: 50px"></div><div style="height: 50px; margin: 10px 0"></div><div style="height: 50px"></div>`)
	boxes := NewLayoutEngine(800, 600).Layout(doc)
	if len(boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(boxes))
	}
	want := []float64{0, 60, 120}
	for i, b := range boxes {
		if b.Y != want[i] {
			t.Errorf("box %d at y=%g, want %g", i, b.Y, want[i])
		}
	}
	if boxes[0].Width != 800 {
		t.Errorf("block width should fill the viewport, got %g", boxes[0].Width)
	}
}

func TestLayoutEngine_AutoHeightFromChildren(t *testing.T) {
	doc := parse(t, `<div id="outer" style="border: 2px solid black"><p style="height: 30px"></p><p style="height: 20px"></p></div>`)
	le := NewLayoutEngine(800, 600)
	le.Layout(doc)
	outer, ok := le.BoxFor(doc.ElementByID("outer"))
	if !ok {
		t.Fatal("outer not laid out")
	}
	if outer.Height != 54 {
		t.Errorf("outer height = %g, want 54", outer.Height)
	}
	inner := outer.Children[1]
	if inner.X != 2 || inner.Y != 32 {
		t.Errorf("second child at (%g,%g), want (2,32)", inner.X, inner.Y)
	}
}

func TestLayoutEngine_AbsolutePositioning(t *testing.T) {
	doc := parse(t, `<body>
<div style="height: 500px"></div>
<div id="a" style="position:absolute; left:0; top:0; width:1px; height:1px"></div>
<div id="b" style="position:absolute; left:400px; top:200px; width:100px; height:100px"></div>
<div id="frame" style="position:relative; left: 10px; top: 20px; width: 300px; height: 300px">
  <div id="c" style="position:absolute; left:5px; top:5px; width:10px; height:10px"></div>
</div>
</body>`)
	live := NewLive(doc, 800, 600)
	tests := []struct {
		id   string
		want geom.Box
	}{
		{"a", geom.Box{Top: 0, Left: 0, Width: 1, Height: 1}},
		{"b", geom.Box{Top: 200, Left: 400, Width: 100, Height: 100}},
		{"frame", geom.Box{Top: 520, Left: 10, Width: 300, Height: 300}},
		{"c", geom.Box{Top: 525, Left: 15, Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		got, err := live.Measure(doc.ElementByID(tt.id))
		if err != nil {
			t.Fatalf("%s: %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}
}

func TestLive_RefreshSeesStyleChanges(t *testing.T) {
	doc := parse(t, `<div id="a" style="position:absolute; left:10px; top:10px; width:5px; height:5px"></div>`)
	live := NewLive(doc, 800, 600)
	a := doc.ElementByID("a")
	a.SetAttribute("style", "position:absolute; left:50px; top:60px; width:5px; height:5px")

	before, _ := live.Measure(a)
	if before.Left != 10 {
		t.Fatalf("stale layout expected before Refresh, got %+v", before)
	}
	live.Refresh()
	after, _ := live.Measure(a)
	if after.Left != 50 || after.Top != 60 {
		t.Errorf("after Refresh = %+v", after)
	}
}

func TestLive_NotRendered(t *testing.T) {
	doc := parse(t, `<div id="hidden" style="display:none"></div>`)
	live := NewLive(doc, 800, 600)
	for _, n := range []*html.Node{doc.ElementByID("hidden"), html.NewElement("div", nil)} {
		if _, err := live.Measure(n); !errors.Is(err, ErrNotRendered) {
			t.Errorf("Measure error = %v, want ErrNotRendered", err)
		}
	}
}

func TestLive_PlacementOrigin(t *testing.T) {
	doc := parse(t, `<body><div id="plain" style="margin-top: 40px"></div>
<div id="pos" style="position: absolute; left: 30px; top: 70px; border: 1px solid red"></div></body>`)
	live := NewLive(doc, 800, 600)
	if got := live.PlacementOrigin(doc.Body()); got != (geom.Point{}) {
		t.Errorf("unpositioned body origin = %v", got)
	}
	if got := live.PlacementOrigin(doc.ElementByID("plain")); got != (geom.Point{}) {
		t.Errorf("static div origin = %v", got)
	}
	if got := live.PlacementOrigin(doc.ElementByID("pos")); got != (geom.Point{X: 31, Y: 71}) {
		t.Errorf("positioned div origin = %v", got)
	}
}

func TestLayoutEngine_TextRuns(t *testing.T) {
	doc := parse(t, `<div id="d" style="border: 1px solid black">first<p style="height: 10px"></p>second</div>`)
	le := NewLayoutEngine(800, 600)
	le.Layout(doc)
	d, _ := le.BoxFor(doc.ElementByID("d"))
	if len(d.Text) != 2 {
		t.Fatalf("expected 2 text runs, got %d", len(d.Text))
	}
	if d.Text[0] != (TextRun{X: 1, Y: 1, Text: "first"}) {
		t.Errorf("first run = %+v", d.Text[0])
	}
	if d.Text[1].Y != 1+LineHeight+10 {
		t.Errorf("second run at y=%g, want %g", d.Text[1].Y, 1+LineHeight+10)
	}
}
