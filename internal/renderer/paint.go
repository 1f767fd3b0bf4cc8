package renderer

import (
	"fmt"
	"strconv"

	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/effects"
	"github.com/ivlev/sigdraw/internal/source"
)

// Baseline is the y coordinate glyphs sit on in provider space.
const Baseline = 150.0

// FillPaint resolves the fill of a path belonging to character idx.
func FillPaint(s config.Style, idx int, prefix string) string {
	switch s.FillMode {
	case config.FillGradient:
		return "url(#" + prefix + "grad-fill)"
	case config.FillMulti:
		return charColor(s.CharColors, idx, s.Fill1)
	default:
		return s.Fill1
	}
}

// StrokePaint resolves the stroke of a path belonging to character idx.
func StrokePaint(s config.Style, idx int, prefix string) string {
	if !s.StrokeEnabled {
		return "none"
	}
	switch s.StrokeMode {
	case config.FillGradient:
		return "url(#" + prefix + "grad-stroke)"
	case config.FillMulti:
		return charColor(s.StrokeCharColors, idx, s.Stroke)
	default:
		return s.Stroke
	}
}

// StrokeWidth is 2 with the outline enabled and 0 otherwise.
func StrokeWidth(s config.Style) float64 {
	if s.StrokeEnabled {
		return 2
	}
	return 0
}

func charColor(colors []string, idx int, fallback string) string {
	if idx >= 0 && idx < len(colors) && colors[idx] != "" {
		return colors[idx]
	}
	return fallback
}

// PlacementTransform maps a record's 1024-unit stroke space onto the glyph
// cursor, flipping y. It returns "" for records without a placement.
func PlacementTransform(p *source.Placement) string {
	if p == nil {
		return ""
	}
	scale := p.FontSize / source.HanziUnits
	return fmt.Sprintf("translate(%s, %s) scale(%s, %s) translate(0, %s)",
		effects.Num(p.X), effects.Num(Baseline-p.FontSize),
		exact(scale), exact(-scale), effects.Num(-source.HanziUnits))
}

// exact keeps every digit; scale factors are multiplied by 1024.
func exact(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
