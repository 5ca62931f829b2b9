// Package viewer provides the fyne widget that displays a rendered
// patch with zoom controls.
package viewer

import (
	"log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"patch-router/internal/patch"
	"patch-router/internal/render"
)

const (
	minZoom  = 0.25
	maxZoom  = 4.0
	zoomStep = 1.25
)

// Viewer displays a patch as a rendered raster and redraws it whenever
// the document reroutes or commits path states.
type Viewer struct {
	widget.BaseWidget

	patch *patch.Patch
	image *fynecanvas.Image
	zoom  float64

	content *fyne.Container
}

// New creates a viewer for the patch and subscribes it to document
// events.
func New(p *patch.Patch) *Viewer {
	v := &Viewer{patch: p, zoom: 1.0}
	v.image = &fynecanvas.Image{FillMode: fynecanvas.ImageFillOriginal, ScaleMode: fynecanvas.ImageScalePixels}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), v.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), v.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), v.ZoomReset),
	)
	v.content = container.NewBorder(toolbar, nil, nil, nil, container.NewScroll(v.image))
	v.ExtendBaseWidget(v)

	p.On(patch.EventConnectionsRerouted, func(interface{}) { v.Redraw() })
	p.On(patch.EventPathStateCommitted, func(interface{}) { v.Redraw() })
	p.On(patch.EventObjectMoved, func(interface{}) { v.Redraw() })

	v.Redraw()
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.content)
}

// Redraw re-renders the patch at the current zoom.
func (v *Viewer) Redraw() {
	img, err := render.Render(v.patch, v.zoom)
	if err != nil {
		log.Printf("render: %v", err)
		return
	}
	v.image.Image = img
	v.image.Refresh()
}

// ZoomIn increases the zoom by one step.
func (v *Viewer) ZoomIn() {
	v.setZoom(v.zoom * zoomStep)
}

// ZoomOut decreases the zoom by one step.
func (v *Viewer) ZoomOut() {
	v.setZoom(v.zoom / zoomStep)
}

// ZoomReset restores 1:1 display.
func (v *Viewer) ZoomReset() {
	v.setZoom(1.0)
}

func (v *Viewer) setZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	if zoom == v.zoom {
		return
	}
	v.zoom = zoom
	v.Redraw()
}
