package video

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"
	"sort"

	"github.com/ivlev/sigdraw/internal/config"
)

// FrameEncoder writes an ordered sequence of frames as one animation.
type FrameEncoder interface {
	EncodeFrames(ctx context.Context, w io.Writer, frames []*image.RGBA) error
}

// ImageEncoder writes a single still image.
type ImageEncoder interface {
	EncodeImage(w io.Writer, img image.Image) error
}

// TransparentIndex is the palette slot reserved for fully transparent pixels.
const TransparentIndex = 0

// paletteSamples bounds how many frames feed the shared palette.
const paletteSamples = 8

// GIFEncoder produces an infinitely looping GIF.
type GIFEncoder struct {
	FPS int
	// Quality follows the 1 (best) to 20 (fastest) scale. Values up to 10
	// enable error diffusion dithering.
	Quality int
}

func NewGIFEncoder(fps, quality int) *GIFEncoder {
	return &GIFEncoder{FPS: fps, Quality: quality}
}

// Delay is the per-frame delay in hundredths of a second.
func (e *GIFEncoder) Delay() int {
	fps := e.FPS
	if fps <= 0 {
		fps = config.DefaultGifFPS
	}
	return max(1, int(math.Round(100/float64(fps))))
}

func (e *GIFEncoder) EncodeFrames(ctx context.Context, w io.Writer, frames []*image.RGBA) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	pal := SharedPalette(frames)
	var drawer draw.Drawer = draw.Src
	if e.Quality <= 10 {
		drawer = draw.FloydSteinberg
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: 0,
	}
	delay := e.Delay()
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		anim.Image[i] = Quantize(f, pal, drawer)
		anim.Delay[i] = delay
		anim.Disposal[i] = gif.DisposalBackground
	}
	anim.BackgroundIndex = TransparentIndex

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("gif encode: %w", err)
	}
	return nil
}

// Quantize maps img onto pal. Pixels under half opacity become the
// transparent index.
func Quantize(img *image.RGBA, pal color.Palette, drawer draw.Drawer) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, pal)
	drawer.Draw(out, b, img, b.Min)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A < 128 {
				out.SetColorIndex(x, y, TransparentIndex)
			} else if out.ColorIndexAt(x, y) == TransparentIndex {
				out.SetColorIndex(x, y, uint8(nearestOpaque(pal, img.RGBAAt(x, y))))
			}
		}
	}
	return out
}

func nearestOpaque(pal color.Palette, c color.RGBA) int {
	return TransparentIndex + 1 + pal[TransparentIndex+1:].Index(color.RGBA{c.R, c.G, c.B, 255})
}

// SharedPalette builds one palette for a whole animation so colors stay
// stable between frames: the transparent slot, the most frequent colors of
// a sample of frames, then web-safe colors up to 256 entries.
func SharedPalette(frames []*image.RGBA) color.Palette {
	type bin struct {
		r, g, b, n int
	}
	bins := map[uint16]*bin{}

	step := max(1, len(frames)/paletteSamples)
	for i := len(frames) - 1; i >= 0; i -= step {
		f := frames[i]
		b := f.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := f.RGBAAt(x, y)
				if c.A < 128 {
					continue
				}
				c = unpremultiply(c)
				key := uint16(c.R>>3)<<10 | uint16(c.G>>3)<<5 | uint16(c.B>>3)
				e, ok := bins[key]
				if !ok {
					e = &bin{}
					bins[key] = e
				}
				e.r += int(c.R)
				e.g += int(c.G)
				e.b += int(c.B)
				e.n++
			}
		}
	}

	keys := make([]uint16, 0, len(bins))
	for k := range bins {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := bins[keys[i]], bins[keys[j]]
		if bi.n != bj.n {
			return bi.n > bj.n
		}
		return keys[i] < keys[j]
	})

	pal := color.Palette{color.RGBA{}}
	seen := map[color.RGBA]bool{}
	for _, k := range keys {
		if len(pal) == 256 {
			break
		}
		e := bins[k]
		c := color.RGBA{uint8(e.r / e.n), uint8(e.g / e.n), uint8(e.b / e.n), 255}
		if !seen[c] {
			seen[c] = true
			pal = append(pal, c)
		}
	}
	for _, c := range palette.WebSafe {
		if len(pal) == 256 {
			break
		}
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		if !seen[rgba] {
			seen[rgba] = true
			pal = append(pal, rgba)
		}
	}
	return pal
}

func unpremultiply(c color.RGBA) color.RGBA {
	if c.A == 255 || c.A == 0 {
		return c
	}
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(min(255, uint32(c.R)*255/a)),
		G: uint8(min(255, uint32(c.G)*255/a)),
		B: uint8(min(255, uint32(c.B)*255/a)),
		A: 255,
	}
}

// PNGEncoder writes still frames.
type PNGEncoder struct {
	enc png.Encoder
}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{enc: png.Encoder{CompressionLevel: png.BestCompression}}
}

func (e *PNGEncoder) EncodeImage(w io.Writer, img image.Image) error {
	if err := e.enc.Encode(w, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}
