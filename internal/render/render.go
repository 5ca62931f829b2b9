// Package render rasterizes a patch: object boxes with their titles and
// iolets, direct connections as curves, segmented connections as their
// routed orthogonal polylines.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"patch-router/internal/patch"
	"patch-router/pkg/geometry"
)

const (
	canvasPadding = 24.0
	fontSize      = 11.0
	ioletRadius   = 2.5
)

var (
	backgroundColor = color.RGBA{R: 0x23, G: 0x24, B: 0x28, A: 0xff}
	objectFill      = color.RGBA{R: 0x32, G: 0x33, B: 0x38, A: 0xff}
	objectBorder    = color.RGBA{R: 0x55, G: 0x57, B: 0x5e, A: 0xff}
	cableColor      = color.RGBA{R: 0xb0, G: 0xb2, B: 0xb8, A: 0xff}
	segmentedColor  = color.RGBA{R: 0x6a, G: 0xa8, B: 0xe0, A: 0xff}
	textColor       = color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
)

// Render draws the patch at the given scale and returns the image.
func Render(p *patch.Patch, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}

	objects := p.Objects()
	connections := p.Connections()

	bounds := contentBounds(objects, connections).Expanded(canvasPadding)
	w := int(bounds.Width * scale)
	h := int(bounds.Height * scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("render: empty patch")
	}

	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	dc.Translate(-bounds.X, -bounds.Y)
	dc.SetColor(backgroundColor)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	// Cables first so boxes sit on top of their endpoints.
	for _, c := range connections {
		drawConnection(dc, p, c)
	}
	for _, o := range objects {
		drawObject(dc, o)
	}

	return dc.Image(), nil
}

// SavePNG renders the patch and writes it to path.
func SavePNG(p *patch.Patch, path string, scale float64) error {
	img, err := Render(p, scale)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func contentBounds(objects []*patch.Object, connections []*patch.Connection) geometry.Rect {
	var bounds geometry.Rect
	first := true
	add := func(r geometry.Rect) {
		if first {
			bounds = r
			first = false
			return
		}
		bounds = bounds.Union(r)
	}
	for _, o := range objects {
		add(o.Bounds)
	}
	for _, c := range connections {
		if len(c.Plan) > 0 {
			add(c.Plan.Bounds())
		}
	}
	if first {
		return geometry.NewRect(0, 0, 100, 100)
	}
	return bounds
}

func drawConnection(dc *gg.Context, p *patch.Patch, c *patch.Connection) {
	plan := c.Plan
	if len(plan) == 0 {
		return
	}
	if len(plan) == 1 {
		return
	}

	dc.SetLineWidth(1.5)
	if c.Segmented {
		dc.SetColor(segmentedColor)
		dc.MoveTo(plan[0].X, plan[0].Y)
		for _, pt := range plan[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
		return
	}

	// Direct connections are drawn with a slight sag, like a hanging
	// cable.
	start := p.StartPoint(c)
	end := p.EndPoint(c)
	midX := (start.X + end.X) / 2
	midY := (start.Y+end.Y)/2 + start.Distance(end)*0.08
	dc.SetColor(cableColor)
	dc.MoveTo(start.X, start.Y)
	dc.QuadraticTo(midX, midY, end.X, end.Y)
	dc.Stroke()
}

func drawObject(dc *gg.Context, o *patch.Object) {
	b := o.Bounds
	dc.SetColor(objectFill)
	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 4)
	dc.Fill()
	dc.SetColor(objectBorder)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, 4)
	dc.Stroke()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(o.Title, b.X+b.Width/2, b.Y+b.Height/2, 0.5, 0.35)

	dc.SetColor(objectBorder)
	for i := 0; i < o.NumInlets; i++ {
		pt := o.InletPosition(i)
		dc.DrawCircle(pt.X, pt.Y, ioletRadius)
		dc.Fill()
	}
	for i := 0; i < o.NumOutlets; i++ {
		pt := o.OutletPosition(i)
		dc.DrawCircle(pt.X, pt.Y, ioletRadius)
		dc.Fill()
	}
}
