package source

import (
	"fmt"
	"math"
)

const (
	boxBaseline = 150.0
	boxPadding  = 40.0
	boxStartX   = 10.0
)

// BoxSource is the last-resort provider used when no real glyph outlines
// are available: every rune becomes a rectangle half an em wide.
type BoxSource struct {
	Text        string
	FontSize    float64
	CharSpacing float64
}

func NewBoxSource(text string, fontSize, charSpacing float64) *BoxSource {
	return &BoxSource{Text: text, FontSize: fontSize, CharSpacing: charSpacing}
}

func (s *BoxSource) Load() (*Document, error) {
	fs := s.FontSize
	if fs <= 0 || math.IsNaN(fs) || math.IsInf(fs, 0) {
		return nil, fmt.Errorf("font size must be positive, got %v", s.FontSize)
	}

	var paths []PathRecord
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	cursor := boxStartX
	idx := 0
	for _, r := range s.Text {
		left, right := cursor, cursor+fs/2
		top, bottom := boxBaseline-fs/2, boxBaseline+fs/2

		paths = append(paths, PathRecord{
			PathData:  fmt.Sprintf("M%s %sL%s %sL%s %sL%s %sZ", num(left), num(top), num(right), num(top), num(right), num(bottom), num(left), num(bottom)),
			Length:    math.Ceil(2 * ((right - left) + (bottom - top))),
			CharIndex: idx,
		})
		minX, minY = math.Min(minX, left), math.Min(minY, top)
		maxX, maxY = math.Max(maxX, right), math.Max(maxY, bottom)

		spacing := s.CharSpacing
		if spacing != 0 && isCJK(r) {
			if spacing > 0 {
				spacing /= 5
			} else {
				spacing *= 5
			}
		}
		cursor += fs/2 + spacing
		idx++
	}

	if len(paths) == 0 {
		return &Document{Viewport: DefaultViewport}, nil
	}

	return &Document{
		Paths: paths,
		Viewport: Viewport{
			X: minX - boxPadding,
			Y: minY - boxPadding,
			W: maxX - minX + boxPadding*2,
			H: maxY - minY + boxPadding*2,
		},
	}, nil
}

func (s *BoxSource) Close() error {
	return nil
}

func isCJK(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

func num(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
