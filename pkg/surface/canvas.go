package surface

import (
	"image"

	"linemate/pkg/route"
)

// Canvas is an immediate-mode drawing target addressed in backing-buffer
// pixels. Points handed to it are already localized and scaled.
type Canvas interface {
	route.Drawer
	SetStroke(style StrokeStyle)
	Stroke()
}

// Backend creates canvases with the given backing-buffer size.
type Backend interface {
	NewCanvas(width, height int) Canvas
}

// Imager is implemented by canvases that rasterize to an image.
type Imager interface {
	Image() image.Image
}
