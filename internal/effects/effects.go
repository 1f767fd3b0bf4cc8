package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/sigdraw/internal/config"
)

// Effect contributes definitions to a document's <defs> block.
type Effect interface {
	Defs(p Params) string
}

// Params carries what an effect needs to emit its definitions.
type Params struct {
	Style    config.Style
	IDPrefix string
	// Pattern origin, so tiles line up with the card.
	PatternX, PatternY float64
	// Raster drops definitions the rasterizer cannot paint. The texture is
	// drawn inline with TileGeometry instead.
	Raster bool
}

// DefaultEffect emits gradients, glow/shadow filters and the texture pattern.
type DefaultEffect struct{}

func (e *DefaultEffect) Defs(p Params) string {
	s := p.Style
	var b strings.Builder

	if s.FillMode == config.FillGradient {
		b.WriteString(linearGradient(p.IDPrefix+"grad-fill", s.Fill1, s.Fill2))
	}
	if s.StrokeEnabled && s.StrokeMode == config.FillGradient {
		b.WriteString(linearGradient(p.IDPrefix+"grad-stroke", s.Stroke, s.Stroke2))
	}
	if HasBackgroundGradient(s) {
		b.WriteString(linearGradient(p.IDPrefix+"bg-grad", s.Bg, s.Bg2))
	}

	if s.UseGlow && !p.Raster {
		fmt.Fprintf(&b, `<filter id="%sglow" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feGaussianBlur stdDeviation="3.5" result="coloredBlur"/>`+
			`<feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge>`+
			`</filter>`, p.IDPrefix)
	}
	if s.UseShadow && !p.Raster {
		fmt.Fprintf(&b, `<filter id="%sshadow" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feDropShadow dx="4" dy="4" stdDeviation="3" flood-opacity="0.6"/>`+
			`</filter>`, p.IDPrefix)
	}

	if s.Texture != config.TextureNone && !p.Raster {
		b.WriteString(PatternDefs(s, p.PatternX, p.PatternY, p.IDPrefix))
	}

	return b.String()
}

// HasBackgroundGradient reports whether the card uses the gradient fill.
func HasBackgroundGradient(s config.Style) bool {
	return !s.BgTransparent && s.BgMode == config.BgGradient && s.Bg != "" && s.Bg2 != ""
}

// FilterRef returns the filter attribute value for paths, or "". Shadow
// wins when both effects are on.
func FilterRef(s config.Style, prefix string) string {
	switch {
	case s.UseShadow:
		return "url(#" + prefix + "shadow)"
	case s.UseGlow:
		return "url(#" + prefix + "glow)"
	default:
		return ""
	}
}

func linearGradient(id, from, to string) string {
	return fmt.Sprintf(`<linearGradient id="%s" x1="0%%" y1="0%%" x2="100%%" y2="0%%">`+
		`<stop offset="0%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`+
		`</linearGradient>`, id, Attr(from), Attr(to))
}

// Num formats a coordinate with at most four decimals. Rounding keeps
// resampled documents byte-identical for identical inputs.
func Num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

// Attr escapes a caller-supplied value for use inside a quoted attribute.
func Attr(v string) string {
	return attrEscaper.Replace(v)
}
