package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter-circle approximation.
const kappa = 0.5522847498

// lineWidth matches the canvas default stroke width.
const lineWidth = 1.0

// Raster is a Surface backed by an RGBA image, for headless rendering.
type Raster struct {
	State
	img  *image.RGBA
	rast *vector.Rasterizer
}

// NewRaster creates a transparent raster of the given pixel size.
func NewRaster(w, h int) *Raster {
	r := &Raster{State: NewState()}
	r.alloc(w, h)
	return r
}

func (r *Raster) alloc(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	r.rast = vector.NewRasterizer(w, h)
}

// Width implements Surface.
func (r *Raster) Width() float64 { return float64(r.img.Bounds().Dx()) }

// Height implements Surface.
func (r *Raster) Height() float64 { return float64(r.img.Bounds().Dy()) }

// SetSize implements Resizable. Content is discarded and state reset.
func (r *Raster) SetSize(w, h float64) {
	r.alloc(int(math.Round(w)), int(math.Round(h)))
	r.ResetState()
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// ClearRect implements Surface.
func (r *Raster) ClearRect(x, y, w, h float64) {
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

// FillCircle implements Surface.
func (r *Raster) FillCircle(cx, cy, rad float64) {
	if rad <= 0 || r.img.Bounds().Empty() {
		return
	}
	b := r.img.Bounds()
	r.rast.Reset(b.Dx(), b.Dy())

	x, y, k := float32(cx), float32(cy), float32(rad)
	c := float32(rad * kappa)
	r.rast.MoveTo(x+k, y)
	r.rast.CubeTo(x+k, y+c, x+c, y+k, x, y+k)
	r.rast.CubeTo(x-c, y+k, x-k, y+c, x-k, y)
	r.rast.CubeTo(x-k, y-c, x-c, y-k, x, y-k)
	r.rast.CubeTo(x+c, y-k, x+k, y-c, x+k, y)
	r.rast.ClosePath()

	r.rast.Draw(r.img, b, paintImage{paint: r.fill, alpha: r.alpha, bounds: b}, image.Point{})
}

// Line implements Surface. Strokes are one pixel wide.
func (r *Raster) Line(x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || r.img.Bounds().Empty() {
		return
	}
	b := r.img.Bounds()
	r.rast.Reset(b.Dx(), b.Dy())

	// Quad offset by half the stroke width along the normal
	nx := float32(-dy / length * lineWidth / 2)
	ny := float32(dx / length * lineWidth / 2)
	ax, ay, bx, by := float32(x0), float32(y0), float32(x1), float32(y1)
	r.rast.MoveTo(ax+nx, ay+ny)
	r.rast.LineTo(bx+nx, by+ny)
	r.rast.LineTo(bx-nx, by-ny)
	r.rast.LineTo(ax-nx, ay-ny)
	r.rast.ClosePath()

	r.rast.Draw(r.img, b, paintImage{paint: r.stroke, alpha: r.alpha, bounds: b}, image.Point{})
}

// Save encodes the raster to path; the format follows the extension.
func (r *Raster) Save(path string) error {
	if err := imaging.Save(r.img, path); err != nil {
		return fmt.Errorf("save raster: %w", err)
	}
	return nil
}

// paintImage adapts a Paint to image.Image for the rasterizer.
type paintImage struct {
	paint  Paint
	alpha  float64
	bounds image.Rectangle
}

func (p paintImage) ColorModel() color.Model { return color.NRGBAModel }

func (p paintImage) Bounds() image.Rectangle { return p.bounds }

func (p paintImage) At(x, y int) color.Color {
	c := p.paint.At(float64(x)+0.5, float64(y)+0.5).WithAlpha(p.alpha)
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
