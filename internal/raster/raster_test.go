package raster

import (
	"image"
	"testing"
)

func TestRasterize(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">` +
		`<rect x="0" y="0" width="5" height="10" fill="#ff0000"/></svg>`
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if err := NewSVG().Rasterize(doc, dst); err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if got := dst.RGBAAt(2, 5); got.R < 250 || got.G > 5 || got.A < 250 {
		t.Errorf("inside pixel = %v, want opaque red", got)
	}
	if got := dst.RGBAAt(8, 5); got.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestRasterizeClearsBuffer(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	empty := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 4 4" width="4" height="4"></svg>`
	if err := NewSVG().Rasterize(empty, dst); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst.Pix {
		if v != 0 {
			t.Fatalf("byte %d = %d, reused buffer was not cleared", i, v)
		}
	}
}

func TestRasterizeDownscale(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">` +
		`<rect x="0" y="0" width="100" height="100" fill="#00ff00"/></svg>`
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if err := NewSVG().Rasterize(doc, dst); err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if got := dst.RGBAAt(5, 5); got.G < 240 || got.R > 15 || got.A < 240 {
		t.Errorf("center pixel = %v, want opaque green", got)
	}
}

func TestRasterizeMalformed(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := NewSVG().Rasterize(`<svg><rect x="0"`, dst); err == nil {
		t.Error("Expected error for truncated document")
	}
	if err := NewSVG().Rasterize(`<svg viewBox="0 0 1 1"></svg>`, image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("Expected error for empty target")
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		w, h   float64
		tw, th int
	}{
		{220, 40, 220, 40},
		{100.4, 99.6, 100, 100},
		{1600, 400, 800, 200},
		{400, 1000, 320, 800},
		{800, 800, 800, 800},
		{0, 0, 1, 1},
	}
	for _, tt := range tests {
		tw, th := TargetSize(tt.w, tt.h)
		if tw != tt.tw || th != tt.th {
			t.Errorf("TargetSize(%v, %v) = %dx%d, want %dx%d", tt.w, tt.h, tw, th, tt.tw, tt.th)
		}
	}
}
