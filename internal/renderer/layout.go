package renderer

import (
	"math"

	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/effects"
	"github.com/ivlev/sigdraw/internal/source"
)

// ReversedLift raises stroke-decomposed text by this share of its height.
const ReversedLift = 0.04

// Layout places the text box, the optional background card and the
// texture overlay on one canvas.
type Layout struct {
	Viewport source.Viewport

	CanvasW, CanvasH float64

	// Offset applied to the path group.
	TextX, TextY float64

	// Card is the background rectangle, nil when transparent.
	Card *effects.Rect
	// Texture is the area covered by the texture overlay.
	Texture effects.Rect

	PatternX, PatternY float64
}

// NewLayout computes the canvas for doc under style s. The canvas grows to
// fit the card and the text is centered on it.
func NewLayout(doc *source.Document, s config.Style) Layout {
	vb := doc.Viewport
	l := Layout{Viewport: vb, CanvasW: vb.W, CanvasH: vb.H}

	cardW, cardH := vb.W, vb.H
	if s.BgSizeMode == config.SizeCustom {
		if s.BgWidth > 0 {
			cardW = s.BgWidth
		}
		if s.BgHeight > 0 {
			cardH = s.BgHeight
		}
	}
	if !s.BgTransparent {
		l.CanvasW = math.Max(l.CanvasW, cardW)
		l.CanvasH = math.Max(l.CanvasH, cardH)
	}

	if doc.HasReversed() {
		l.TextY -= vb.H * ReversedLift
	}
	if l.CanvasW > vb.W {
		l.TextX += (l.CanvasW - vb.W) / 2
	}
	if l.CanvasH > vb.H {
		l.TextY += (l.CanvasH - vb.H) / 2
	}

	if s.Texture != config.TextureNone {
		sz := math.Max(1, s.TexSize)
		l.PatternX = -math.Mod(l.CanvasW, sz) / 2
		l.PatternY = -math.Mod(l.CanvasH, sz) / 2
	}

	area := effects.Rect{X: vb.X + l.TextX, Y: vb.Y + l.TextY, W: vb.W, H: vb.H}
	if !s.BgTransparent {
		card := effects.Rect{
			X: vb.X + (l.CanvasW-cardW)/2,
			Y: vb.Y + (l.CanvasH-cardH)/2,
			W: cardW,
			H: cardH,
		}
		l.Card = &card
		area = card
	}

	pad := math.Max(0, math.Min(s.CardPadding, math.Min(l.CanvasW, l.CanvasH)/4))
	l.Texture = effects.Rect{
		X: area.X + pad,
		Y: area.Y + pad,
		W: math.Max(0, area.W-2*pad),
		H: math.Max(0, area.H-2*pad),
	}

	return l
}
