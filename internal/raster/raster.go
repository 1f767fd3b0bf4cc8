// Package raster turns SVG frame documents into RGBA pixels.
package raster

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// MaxDimension caps either side of a raster frame. Tuned for encode time.
const MaxDimension = 800

// Rasterizer paints one SVG document into dst, scaled to dst's bounds.
type Rasterizer interface {
	Rasterize(doc string, dst *image.RGBA) error
}

// SVG rasterizes with oksvg. Documents larger than the target are drawn at
// their own size and then downscaled.
type SVG struct {
	// Scaler resamples oversized renders; nil uses CatmullRom.
	Scaler draw.Scaler
}

func NewSVG() *SVG {
	return &SVG{Scaler: draw.CatmullRom}
}

func (r *SVG) Rasterize(doc string, dst *image.RGBA) error {
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("parse svg: %w", err)
	}

	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty target %v", bounds)
	}
	draw.Draw(dst, bounds, image.Transparent, image.Point{}, draw.Src)

	nw := int(math.Round(icon.ViewBox.W))
	nh := int(math.Round(icon.ViewBox.H))
	if nw <= 0 || nh <= 0 || (nw <= w && nh <= h) {
		paint(icon, dst, w, h)
		return nil
	}

	src := image.NewRGBA(image.Rect(0, 0, nw, nh))
	paint(icon, src, nw, nh)

	scaler := r.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, bounds, src, src.Bounds(), draw.Src, nil)
	return nil
}

func paint(icon *oksvg.SvgIcon, img *image.RGBA, w, h int) {
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
}

// TargetSize is the frame size for a canvas of w by h document units:
// rounded, then uniformly shrunk so neither side exceeds MaxDimension.
func TargetSize(w, h float64) (int, int) {
	tw := int(math.Round(w))
	th := int(math.Round(h))
	if tw > MaxDimension || th > MaxDimension {
		scale := float64(MaxDimension) / float64(max(tw, th))
		tw = int(math.Round(float64(tw) * scale))
		th = int(math.Round(float64(th) * scale))
	}
	return max(tw, 1), max(th, 1)
}
