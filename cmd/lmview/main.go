package main

import (
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"linemate/pkg/config"
	"linemate/pkg/page"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.html|url> [config.yaml]\n", os.Args[0])
		os.Exit(1)
	}
	src := os.Args[1]

	cfg := config.Default()
	if len(os.Args) > 2 {
		loaded, err := config.Load(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	a := app.New()
	w := a.NewWindow("lmview")
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)+60))

	// Blank initial render target
	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, int(cfg.Viewport.Width), int(cfg.Viewport.Height))))
	canvasImg.FillMode = canvas.ImageFillContain
	canvasImg.SetMinSize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)))

	status := widget.NewLabel("Loading " + src + "...")

	// load re-reads the source so edits to the file show up on re-render.
	load := func() {
		status.SetText("Rendering " + src + "...")
		go func() {
			p, err := page.Load(src, cfg)
			if err != nil {
				fyne.Do(func() { status.SetText("Error: " + err.Error()) })
				return
			}
			img := p.RunAndRender()
			n := len(p.Session.Surfaces())
			fyne.Do(func() {
				canvasImg.Image = img
				canvasImg.Refresh()
				status.SetText(fmt.Sprintf("%s: %d connectors", src, n))
				w.SetTitle("lmview - " + src)
			})
		}()
	}

	rerender := widget.NewButton("Re-render", load)
	bottom := container.NewBorder(nil, nil, nil, rerender, status)
	w.SetContent(container.NewBorder(nil, bottom, nil, nil, canvasImg))

	load()
	w.ShowAndRun()
}
