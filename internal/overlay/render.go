// Package overlay rasterizes the active annotation into a transparent
// image that can be laid over base map tiles.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/woozymasta/dzmeasure/internal/geo"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Options control the rendered image.
type Options struct {
	Size        int     // output width and height in pixels
	Supersample int     // render at Size*Supersample, then downscale
	Quality     float32 // webp quality, ignored when Lossless
	Lossless    bool
}

const (
	lineWidth   = 2.0
	pointRadius = 5.0
	pointSides  = 16

	// geometry is clipped this many canvas pixels outside the image so
	// pixel coordinates stay small and clip edges fall off-canvas
	clipMargin = 16
)

var (
	fillColor   = color.NRGBA{R: 255, G: 204, B: 51, A: 96}
	strokeColor = color.NRGBA{R: 255, G: 204, B: 51, A: 230}
)

func (o Options) normalized() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.Quality <= 0 {
		o.Quality = 85
	}
	return o
}

// Render draws rec inside bound. A nil record yields a fully transparent image.
func Render(rec *geo.Record, bound orb.Bound, opts Options) *image.RGBA {
	opts = opts.normalized()
	out := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	if rec == nil {
		return out
	}

	scale := opts.Supersample
	canvasSize := opts.Size * scale
	canvas := out
	if scale > 1 {
		canvas = image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	}

	vp := geo.Viewport{Bound: bound, Width: canvasSize, Height: canvasSize}
	view := clipBound(bound, canvasSize)
	s := float32(scale)

	switch g := rec.Geometry.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			if ring := clip.Ring(view, g[0].Clone()); len(ring) >= geo.MinRingVertices {
				fillPath(canvas, vp, ring, fillColor)
			}
			for _, ls := range clip.LineString(view, orb.LineString(g[0])) {
				strokePath(canvas, vp, ls, lineWidth*s, strokeColor)
			}
		}
	case orb.LineString:
		for _, ls := range clip.LineString(view, g) {
			strokePath(canvas, vp, ls, lineWidth*s, strokeColor)
		}
	case orb.Point:
		if view.Contains(g) {
			x, y := vp.ToPixel(g)
			drawDisc(canvas, x, y, pointRadius*s, strokeColor)
		}
	}

	if scale > 1 {
		// Downscale the supersampled canvas to smooth the edges further.
		xdraw.BiLinear.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	}

	return out
}

// clipBound pads bound by clipMargin canvas pixels.
func clipBound(bound orb.Bound, canvasSize int) orb.Bound {
	px := math.Max(bound.Max.X()-bound.Min.X(), bound.Max.Y()-bound.Min.Y()) / float64(canvasSize)
	return bound.Pad(px * clipMargin)
}

// Encode writes img as WebP.
func Encode(w io.Writer, img image.Image, opts Options) error {
	opts = opts.normalized()
	return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: opts.Quality})
}

func fillPath(dst *image.RGBA, vp geo.Viewport, ring orb.Ring, c color.Color) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	for i, p := range ring {
		x, y := vp.ToPixel(p)
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokePath draws every segment as a quad of the given width.
func strokePath(dst *image.RGBA, vp geo.Viewport, ls orb.LineString, width float32, c color.Color) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	half := float64(width) / 2

	for i := 0; i+1 < len(ls); i++ {
		x0, y0 := vp.ToPixel(ls[i])
		x1, y1 := vp.ToPixel(ls[i+1])

		dx, dy := float64(x1-x0), float64(y1-y0)
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := float32(-dy/l*half), float32(dx/l*half)

		r.MoveTo(x0+nx, y0+ny)
		r.LineTo(x1+nx, y1+ny)
		r.LineTo(x1-nx, y1-ny)
		r.LineTo(x0-nx, y0-ny)
		r.ClosePath()
	}

	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func drawDisc(dst *image.RGBA, cx, cy, radius float32, c color.Color) {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())

	for i := 0; i < pointSides; i++ {
		a := 2 * math.Pi * float64(i) / pointSides
		x := cx + radius*float32(math.Cos(a))
		y := cy + radius*float32(math.Sin(a))
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}
