package analyzer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

func canvas(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func TestInkDetectorTransparent(t *testing.T) {
	img := canvas(100, 60, nil)
	fill(img, image.Rect(10, 10, 30, 50), color.Black)
	fill(img, image.Rect(60, 20, 90, 40), color.Black)

	blocks, err := NewInkDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d: %v", len(blocks), blocks)
	}

	// Dilation widens each block by the merge radius.
	want := image.Rect(8, 8, 32, 52)
	if blocks[0].Rect != want {
		t.Errorf("first block = %v, want %v", blocks[0].Rect, want)
	}
	if blocks[0].Coverage <= 0 || blocks[0].Coverage > 1 {
		t.Errorf("coverage out of range: %v", blocks[0].Coverage)
	}
}

func TestInkDetectorMergesNearbyStrokes(t *testing.T) {
	img := canvas(50, 20, nil)
	fill(img, image.Rect(5, 5, 10, 15), color.Black)
	fill(img, image.Rect(12, 5, 17, 15), color.Black)

	blocks, _ := NewInkDetector().Detect(img)
	if len(blocks) != 1 {
		t.Errorf("strokes two pixels apart should merge, got %d blocks", len(blocks))
	}
}

func TestInkDetectorBackground(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	img := canvas(40, 40, white)
	fill(img, image.Rect(0, 0, 20, 40), color.RGBA{250, 250, 250, 255})

	d := NewInkDetector()
	d.Background = white
	if c := d.Coverage(img); c != 0 {
		t.Errorf("near-background pixels should not count, coverage %v", c)
	}

	fill(img, image.Rect(0, 0, 20, 40), color.RGBA{0, 0, 255, 255})
	if c := d.Coverage(img); math.Abs(c-0.5) > 1e-9 {
		t.Errorf("Expected coverage 0.5, got %v", c)
	}
}

func TestInkDetectorBlank(t *testing.T) {
	d := NewInkDetector()
	img := canvas(10, 10, nil)
	blocks, _ := d.Detect(img)
	if len(blocks) != 0 || d.Coverage(img) != 0 {
		t.Error("blank frame should have no ink")
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"ink", false},
		{"", false},
		{"contrast", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant, nil)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if detector == nil {
					t.Error("Expected detector, got nil")
				}
			}
		})
	}
}
