package effects

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/sigdraw/internal/config"
)

// Rect is an axis-aligned box in document coordinates.
type Rect struct {
	X, Y, W, H float64
}

// PatternID is the id of the texture pattern for s.
func PatternID(s config.Style, prefix string) string {
	return prefix + "texture-" + s.Texture
}

// PatternDefs emits the <pattern> tile for the style's texture. The tile
// side equals TexSize in document units.
func PatternDefs(s config.Style, px, py float64, prefix string) string {
	sz := s.TexSize
	half := sz / 2
	stroke := fmt.Sprintf(`stroke="%s" stroke-width="%s" stroke-opacity="%s"`, Attr(s.TexColor), Num(s.TexThickness), Num(s.TexOpacity))

	var body string
	switch s.Texture {
	case "grid":
		body = fmt.Sprintf(`<path d="M %s 0 L 0 0 0 %s" fill="none" %s/>`, Num(sz), Num(sz), stroke)
	case "dots":
		body = fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"/>`,
			Num(half), Num(half), Num(s.TexThickness*1.5), Attr(s.TexColor), Num(s.TexOpacity))
	case "lines":
		body = fmt.Sprintf(`<path d="M 0 %s L %s %s" %s/>`, Num(half), Num(sz), Num(half), stroke)
	case "cross":
		q, tq := sz/4, sz*0.75
		body = fmt.Sprintf(`<path d="M %s %s L %s %s M %s %s L %s %s" %s/>`,
			Num(q), Num(q), Num(tq), Num(tq), Num(tq), Num(q), Num(q), Num(tq), stroke)
	case "tianzige":
		body = fmt.Sprintf(`<rect width="%s" height="%s" fill="none" %s/>`, Num(sz), Num(sz), stroke) +
			fmt.Sprintf(`<path d="M%s 0 L%s %s M0 %s L%s %s" %s stroke-dasharray="3,3"/>`,
				Num(half), Num(half), Num(sz), Num(half), Num(sz), Num(half), stroke)
	case "mizige":
		body = fmt.Sprintf(`<rect width="%s" height="%s" fill="none" %s/>`, Num(sz), Num(sz), stroke) +
			fmt.Sprintf(`<path d="M0 0 L%s %s M%s 0 L0 %s M%s 0 L%s %s M0 %s L%s %s" %s stroke-dasharray="3,3"/>`,
				Num(sz), Num(sz), Num(sz), Num(sz), Num(half), Num(half), Num(sz), Num(half), Num(sz), Num(half), stroke)
	default:
		return ""
	}

	return fmt.Sprintf(`<pattern id="%s" x="%s" y="%s" width="%s" height="%s" patternUnits="userSpaceOnUse">%s</pattern>`,
		PatternID(s, prefix), Num(px), Num(py), Num(sz), Num(sz), body)
}

// TileGeometry draws the texture over r as plain path elements, for
// renderers without pattern support. Tiles are anchored at (px, py) like
// the pattern and only primitives inside r are kept.
func TileGeometry(s config.Style, px, py float64, r Rect) string {
	sz := s.TexSize
	if s.Texture == config.TextureNone || sz <= 0 || r.W <= 0 || r.H <= 0 {
		return ""
	}

	var solid, dashed, dots strings.Builder
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H

	vline := func(b *strings.Builder, x float64) {
		if x >= x0 && x <= x1 {
			fmt.Fprintf(b, "M%s %sV%s", Num(x), Num(y0), Num(y1))
		}
	}
	hline := func(b *strings.Builder, y float64) {
		if y >= y0 && y <= y1 {
			fmt.Fprintf(b, "M%s %sH%s", Num(x0), Num(y), Num(x1))
		}
	}
	segment := func(b *strings.Builder, ax, ay, bx, by float64) {
		if inside(ax, ay, r) && inside(bx, by, r) {
			fmt.Fprintf(b, "M%s %sL%s %s", Num(ax), Num(ay), Num(bx), Num(by))
		}
	}

	firstX := px + math.Floor((x0-px)/sz)*sz
	firstY := py + math.Floor((y0-py)/sz)*sz

	for x := firstX; x <= x1; x += sz {
		switch s.Texture {
		case "grid", "tianzige", "mizige":
			vline(&solid, x)
		}
		switch s.Texture {
		case "tianzige", "mizige":
			vline(&dashed, x+sz/2)
		}
	}
	for y := firstY; y <= y1; y += sz {
		switch s.Texture {
		case "grid", "tianzige", "mizige":
			hline(&solid, y)
		case "lines":
			hline(&solid, y+sz/2)
		}
		switch s.Texture {
		case "tianzige", "mizige":
			hline(&dashed, y+sz/2)
		}
	}

	radius := s.TexThickness * 1.5
	for y := firstY; y <= y1; y += sz {
		for x := firstX; x <= x1; x += sz {
			switch s.Texture {
			case "cross":
				segment(&solid, x+sz/4, y+sz/4, x+sz*0.75, y+sz*0.75)
				segment(&solid, x+sz*0.75, y+sz/4, x+sz/4, y+sz*0.75)
			case "mizige":
				segment(&dashed, x, y, x+sz, y+sz)
				segment(&dashed, x+sz, y, x, y+sz)
			case "dots":
				cx, cy := x+sz/2, y+sz/2
				if radius > 0 && inside(cx-radius, cy-radius, r) && inside(cx+radius, cy+radius, r) {
					fmt.Fprintf(&dots, "M%s %sa%s %s 0 1 0 %s 0a%s %s 0 1 0 %s 0Z",
						Num(cx-radius), Num(cy), Num(radius), Num(radius), Num(2*radius),
						Num(radius), Num(radius), Num(-2*radius))
				}
			}
		}
	}

	stroke := fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s"`, Attr(s.TexColor), Num(s.TexThickness), Num(s.TexOpacity))
	var out strings.Builder
	if solid.Len() > 0 {
		fmt.Fprintf(&out, `<path d="%s" %s/>`, solid.String(), stroke)
	}
	if dashed.Len() > 0 {
		fmt.Fprintf(&out, `<path d="%s" %s stroke-dasharray="3,3"/>`, dashed.String(), stroke)
	}
	if dots.Len() > 0 {
		fmt.Fprintf(&out, `<path d="%s" fill="%s" fill-opacity="%s"/>`, dots.String(), Attr(s.TexColor), Num(s.TexOpacity))
	}
	return out.String()
}

func inside(x, y float64, r Rect) bool {
	const tol = 1e-9
	return x >= r.X-tol && x <= r.X+r.W+tol && y >= r.Y-tol && y <= r.Y+r.H+tol
}
