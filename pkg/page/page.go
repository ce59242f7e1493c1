// Package page ties a document, its layout, its connector session and its
// scripts together and renders the result.
package page

import (
	"fmt"
	"image"
	"log"

	"linemate/pkg/config"
	"linemate/pkg/html"
	"linemate/pkg/js"
	"linemate/pkg/layout"
	"linemate/pkg/linemate"
	"linemate/pkg/render"
	"linemate/pkg/surface"
)

// Page is one loaded document.
type Page struct {
	Doc     *html.Document
	Live    *layout.Live
	Session *linemate.Session

	cfg *config.Config
}

// New parses htmlContent and prepares a session configured by cfg. A nil
// cfg means config.Default().
func New(htmlContent string, cfg *config.Config) (*Page, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	doc, err := html.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	live := layout.NewLive(doc, cfg.Viewport.Width, cfg.Viewport.Height)
	s := linemate.NewSession(doc, live, surface.WithPixelRatio(surface.FixedRatio(cfg.PixelRatio)))
	if err := cfg.Apply(s); err != nil {
		return nil, err
	}
	return &Page{Doc: doc, Live: live, Session: s, cfg: cfg}, nil
}

// Load reads src (a path or URL) and calls New.
func Load(src string, cfg *config.Config) (*Page, error) {
	content, err := ReadSource(src)
	if err != nil {
		return nil, err
	}
	return New(content, cfg)
}

// RunScripts executes the page's scripts, which typically call linemate.*.
func (p *Page) RunScripts() error {
	return js.New(p.Session).Execute()
}

// Render lays the document out again and composites it with its surfaces
// at the configured pixel ratio.
func (p *Page) Render() image.Image {
	p.Live.Refresh()
	r := render.NewRenderer(int(p.cfg.Viewport.Width), int(p.cfg.Viewport.Height), p.cfg.PixelRatio)
	r.Render(p.Live.Boxes(), p.Session.Surfaces())
	return r.Image()
}

// RunAndRender runs the scripts and renders. Script errors are logged,
// not returned, so a page with a broken script still renders.
func (p *Page) RunAndRender() image.Image {
	if err := p.RunScripts(); err != nil {
		log.Printf("js: %v", err)
	}
	return p.Render()
}
