package analyzer

import (
	"image"
	"image/color"
)

// InkDetector finds strokes by comparing pixels against the canvas
// background. Nearby strokes are merged so one glyph yields one block.
type InkDetector struct {
	// Background is the canvas color; nil means transparent.
	Background   color.Color
	Threshold    uint8 // per-channel difference that counts as ink
	MinBlockArea int   // in pixels
	MergeRadius  int
}

// NewInkDetector creates a detector with default settings.
func NewInkDetector() *InkDetector {
	return &InkDetector{
		Threshold:    24,
		MinBlockArea: 4,
		MergeRadius:  2,
	}
}

// Detect returns the inked regions of img, top-left first.
func (d *InkDetector) Detect(img image.Image) ([]Block, error) {
	mask := d.inkMask(img)
	merged := mask
	if d.MergeRadius > 0 {
		merged = dilate(mask, 2*d.MergeRadius+1, 1)
	}

	blocks := []Block{}
	for _, rect := range findContours(merged) {
		if rect.Dx()*rect.Dy() < d.MinBlockArea {
			continue
		}
		inked := countInk(mask, rect)
		if inked == 0 {
			continue
		}
		blocks = append(blocks, Block{
			Rect:     rect,
			Coverage: float64(inked) / float64(rect.Dx()*rect.Dy()),
		})
	}
	return blocks, nil
}

// Coverage is the share of img's pixels that carry ink.
func (d *InkDetector) Coverage(img image.Image) float64 {
	mask := d.inkMask(img)
	b := mask.Bounds()
	if b.Empty() {
		return 0
	}
	return float64(countInk(mask, b)) / float64(b.Dx()*b.Dy())
}

// inkMask marks every pixel that differs from the background.
func (d *InkDetector) inkMask(img image.Image) *image.Gray {
	bounds := img.Bounds()
	mask := image.NewGray(bounds)

	var br, bg, bb, ba uint32
	if d.Background != nil {
		br, bg, bb, ba = d.Background.RGBA()
	}
	limit := uint32(d.Threshold) << 8

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if diff(r, br) > limit || diff(g, bg) > limit || diff(b, bb) > limit || diff(a, ba) > limit {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func countInk(mask *image.Gray, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 128 {
				n++
			}
		}
	}
	return n
}

// dilate grows inked areas so nearby strokes connect.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)

		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				maxVal := uint8(0)
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						p := image.Point{X: x + kx, Y: y + ky}
						if !p.In(bounds) {
							continue
						}
						if v := result.GrayAt(p.X, p.Y).Y; v > maxVal {
							maxVal = v
						}
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}

		result = temp
	}

	return result
}

// findContours finds bounding rectangles of connected inked regions.
func findContours(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	visited := make([][]bool, bounds.Dy())
	for i := range visited {
		visited[i] = make([]bool, bounds.Dx())
	}

	contours := []image.Rectangle{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[y-bounds.Min.Y][x-bounds.Min.X] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}

	return contours
}

// floodFill walks one connected region and returns its bounds.
func floodFill(img *image.Gray, visited [][]bool, startX, startY int) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !p.In(bounds) {
			continue
		}
		if visited[p.Y-bounds.Min.Y][p.X-bounds.Min.X] || img.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[p.Y-bounds.Min.Y][p.X-bounds.Min.X] = true

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
