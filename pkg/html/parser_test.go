package html

import "testing"

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParser_NestedElements(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><p class="a">text</p><span></span></div>`)
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 root child, got %d", len(doc.Root.Children))
	}
	outer := doc.Root.Children[0]
	if outer.TagName != "div" || outer.Attributes["id"] != "outer" {
		t.Errorf("outer = <%s id=%q>", outer.TagName, outer.Attributes["id"])
	}
	if len(outer.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(outer.Children))
	}
	p := outer.Children[0]
	if p.Parent != outer {
		t.Error("parent pointer not set")
	}
	if p.Children[0].Type != TextNode || p.Children[0].Text != "text" {
		t.Errorf("text child = %+v", p.Children[0])
	}
}

func TestParser_VoidAndSelfClosing(t *testing.T) {
	doc := mustParse(t, `<div><br><img src="x"/><span>after</span></div>`)
	div := doc.Root.Children[0]
	if len(div.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(div.Children))
	}
	if div.Children[2].TagName != "span" {
		t.Errorf("span should be a sibling of br and img, got %s", div.Children[2].TagName)
	}
}

func TestParser_ScriptsAndStyles(t *testing.T) {
	doc := mustParse(t, `<html><head><style>.a { color: red }</style></head>
<body><div class="a"></div>
<script>if (1 < 2) { linemate.connect(".a"); }</script>
<SCRIPT>var x = "</div>";</SCRIPT></body></html>`)
	if len(doc.Stylesheets) != 1 || doc.Stylesheets[0] != ".a { color: red }" {
		t.Errorf("stylesheets = %q", doc.Stylesheets)
	}
	if len(doc.Scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(doc.Scripts))
	}
	if doc.Scripts[0] != `if (1 < 2) { linemate.connect(".a"); }` {
		t.Errorf("script 0 = %q", doc.Scripts[0])
	}
	if doc.Scripts[1] != `var x = "</div>";` {
		t.Errorf("script 1 = %q", doc.Scripts[1])
	}
	body := doc.Body()
	if body.TagName != "body" || len(body.Children) != 1 {
		t.Errorf("body should hold only the div, got %d children", len(body.Children))
	}
}

func TestParser_CommentsAndDoctype(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><!-- note --><p>x</p>`)
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].TagName != "p" {
		t.Errorf("unexpected root children: %+v", doc.Root.Children)
	}
}

func TestParser_UnmatchedEndTagIgnored(t *testing.T) {
	doc := mustParse(t, `<div></span><p></p></div>`)
	div := doc.Root.Children[0]
	if len(div.Children) != 1 || div.Children[0].TagName != "p" {
		t.Errorf("unexpected children: %+v", div.Children)
	}
}
