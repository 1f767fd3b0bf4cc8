package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"testing"
)

func testFrames(n int) []*image.RGBA {
	frames := make([]*image.RGBA, n)
	for i := range frames {
		f := image.NewRGBA(image.Rect(0, 0, 8, 8))
		// The red bar grows one column per frame.
		draw.Draw(f, image.Rect(0, 0, i+1, 8), image.NewUniform(color.RGBA{255, 0, 0, 255}), image.Point{}, draw.Src)
		frames[i] = f
	}
	return frames
}

func TestGIFEncoder(t *testing.T) {
	for _, quality := range []int{1, 20} {
		var buf bytes.Buffer
		enc := NewGIFEncoder(30, quality)
		if err := enc.EncodeFrames(context.Background(), &buf, testFrames(3)); err != nil {
			t.Fatalf("quality %d: EncodeFrames failed: %v", quality, err)
		}

		g, err := gif.DecodeAll(&buf)
		if err != nil {
			t.Fatalf("quality %d: decode failed: %v", quality, err)
		}
		if len(g.Image) != 3 {
			t.Fatalf("Expected 3 frames, got %d", len(g.Image))
		}
		if g.LoopCount != 0 {
			t.Errorf("Expected infinite loop, got LoopCount %d", g.LoopCount)
		}
		for i, d := range g.Delay {
			if d != 3 {
				t.Errorf("frame %d: delay %d, want 3", i, d)
			}
		}

		last := g.Image[2]
		if _, _, _, a := last.At(7, 0).RGBA(); a != 0 {
			t.Errorf("quality %d: empty pixel should be transparent", quality)
		}
		r, gr, b, a := last.At(0, 0).RGBA()
		if a != 0xffff || r>>8 < 240 || gr>>8 > 15 || b>>8 > 15 {
			t.Errorf("quality %d: drawn pixel = %v, want red", quality, last.At(0, 0))
		}
	}
}

func TestGIFEncoderErrors(t *testing.T) {
	enc := NewGIFEncoder(30, 5)
	if err := enc.EncodeFrames(context.Background(), &bytes.Buffer{}, nil); err == nil {
		t.Error("Expected error for no frames")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := enc.EncodeFrames(ctx, &buf, testFrames(2)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("cancelled encode should write nothing")
	}
}

func TestDelay(t *testing.T) {
	tests := []struct {
		fps, want int
	}{
		{10, 10},
		{30, 3},
		{60, 2},
		{0, 3},
	}
	for _, tt := range tests {
		if got := (&GIFEncoder{FPS: tt.fps}).Delay(); got != tt.want {
			t.Errorf("Delay(fps=%d) = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestSharedPalette(t *testing.T) {
	pal := SharedPalette(testFrames(4))
	// transparent, red, then the web-safe cube without its red
	if len(pal) != 217 {
		t.Errorf("Expected 217 entries, got %d", len(pal))
	}
	if _, _, _, a := pal[TransparentIndex].RGBA(); a != 0 {
		t.Error("Slot 0 must be transparent")
	}
	if pal[1] != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Most frequent color should come first, got %v", pal[1])
	}
}

func TestQuantizeKeepsOpaquePixelsOpaque(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	pal := color.Palette{color.RGBA{}, color.RGBA{0, 0, 0, 255}}

	out := Quantize(img, pal, draw.Src)
	if out.ColorIndexAt(0, 0) != 1 {
		t.Errorf("black pixel index = %d, want 1", out.ColorIndexAt(0, 0))
	}
	if out.ColorIndexAt(1, 0) != TransparentIndex {
		t.Errorf("empty pixel index = %d, want transparent", out.ColorIndexAt(1, 0))
	}
}

func TestPNGEncoder(t *testing.T) {
	var buf bytes.Buffer
	src := testFrames(2)[1]
	if err := NewPNGEncoder().EncodeImage(&buf, src); err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
}
