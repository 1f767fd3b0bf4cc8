// Package renderer samples the animation and writes it out as SVG.
package renderer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/director"
	"github.com/ivlev/sigdraw/internal/effects"
	"github.com/ivlev/sigdraw/internal/source"
	"github.com/ivlev/sigdraw/internal/timeline"
)

// Mode selects how path state is expressed in the document.
type Mode int

const (
	// ModeStatic draws everything fully revealed with no animation.
	ModeStatic Mode = iota
	// ModeResolved bakes the numeric state at Options.Time.
	ModeResolved
	// ModeDeclarative emits CSS keyframes and lets the viewer's clock run.
	ModeDeclarative
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeResolved:
		return "resolved"
	case ModeDeclarative:
		return "declarative"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Target is the consumer of the document.
type Target int

const (
	TargetBrowser Target = iota
	// TargetRaster restricts output to what the rasterizer understands.
	TargetRaster
)

// Options controls one Render call.
type Options struct {
	Mode     Mode
	Time     float64 // sample time, ModeResolved only
	Target   Target
	IDPrefix string
	Minify   bool
}

// Renderer composes signature documents.
type Renderer struct {
	Effect effects.Effect
	min    *minify.M
}

func New(eff effects.Effect) *Renderer {
	if eff == nil {
		eff = &effects.DefaultEffect{}
	}
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFunc("text/css", css.Minify)
	return &Renderer{Effect: eff, min: m}
}

// Render writes doc as one self-contained SVG document. tl must have been
// allocated from doc.Paths.
func (r *Renderer) Render(doc *source.Document, s config.Style, tl director.Timeline, opts Options) (string, error) {
	if tl.Len() != len(doc.Paths) {
		return "", fmt.Errorf("timeline has %d entries for %d paths", tl.Len(), len(doc.Paths))
	}

	l := NewLayout(doc, s)
	prefix := opts.IDPrefix
	raster := opts.Target == TargetRaster

	var frame Frame
	switch opts.Mode {
	case ModeResolved:
		frame = Sample(doc.Paths, tl, opts.Time)
	case ModeDeclarative:
		frame = Sample(doc.Paths, tl, 0)
	default:
		frame = FinalFrame(len(doc.Paths))
	}

	var b strings.Builder
	vb := l.Viewport
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`,
		effects.Num(vb.X), effects.Num(vb.Y), effects.Num(l.CanvasW), effects.Num(l.CanvasH),
		effects.Num(l.CanvasW), effects.Num(l.CanvasH))

	b.WriteString("<defs>")
	b.WriteString(r.Effect.Defs(effects.Params{
		Style:    s,
		IDPrefix: prefix,
		PatternX: l.PatternX,
		PatternY: l.PatternY,
		Raster:   raster,
	}))
	if opts.Mode == ModeDeclarative && len(doc.Paths) > 0 {
		b.WriteString("<style>")
		writeKeyframes(&b, doc.Paths, tl, s, prefix)
		b.WriteString("</style>")
	}
	b.WriteString("</defs>")

	if l.Card != nil {
		bg := s.Bg
		if effects.HasBackgroundGradient(s) {
			bg = "url(#" + prefix + "bg-grad)"
		}
		c := l.Card
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" rx="%s"/>`,
			effects.Num(c.X), effects.Num(c.Y), effects.Num(c.W), effects.Num(c.H),
			effects.Attr(bg), effects.Num(s.BorderRadius))
	}

	if s.Texture != config.TextureNone && l.Texture.W > 0 && l.Texture.H > 0 {
		if raster {
			// Tiles are anchored to the canvas origin like the pattern.
			b.WriteString(effects.TileGeometry(s, vb.X+l.PatternX, vb.Y+l.PatternY, l.Texture))
		} else {
			t := l.Texture
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="url(#%s)" pointer-events="none"/>`,
				effects.Num(t.X), effects.Num(t.Y), effects.Num(t.W), effects.Num(t.H),
				effects.PatternID(s, prefix))
		}
	}

	fmt.Fprintf(&b, `<g transform="translate(%s, %s)">`, effects.Num(l.TextX), effects.Num(l.TextY))
	filter := ""
	if !raster {
		filter = effects.FilterRef(s, prefix)
	}
	for i, p := range doc.Paths {
		writePath(&b, i, p, frame.States[i], s, prefix, filter, opts.Mode == ModeDeclarative, raster)
	}
	b.WriteString("</g></svg>")

	out := b.String()
	if opts.Minify {
		m, err := r.min.String("image/svg+xml", out)
		if err != nil {
			return "", fmt.Errorf("minify: %w", err)
		}
		out = m
	}
	return out, nil
}

func writePath(b *strings.Builder, i int, p source.PathRecord, st PathState, s config.Style, prefix, filter string, animated, raster bool) {
	fmt.Fprintf(b, `<path d="%s" fill="%s" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"`,
		effects.Attr(p.PathData),
		effects.Attr(FillPaint(s, p.CharIndex, prefix)),
		effects.Attr(StrokePaint(s, p.CharIndex, prefix)),
		effects.Num(StrokeWidth(s)))
	if filter != "" {
		fmt.Fprintf(b, ` filter="%s"`, filter)
	}
	if tr := PlacementTransform(p.Placement); tr != "" {
		fmt.Fprintf(b, ` transform="%s"`, tr)
	}
	// A zero dash would hide nothing and some renderers reject it.
	if p.Length > 0 {
		dash, offset := p.Length, st.Offset
		if raster {
			dash, offset = rasterDash(p, offset)
		}
		fmt.Fprintf(b, ` stroke-dasharray="%s" stroke-dashoffset="%s"`, effects.Num(dash), effects.Num(offset))
	}
	fmt.Fprintf(b, ` fill-opacity="%s"`, effects.Num(st.Opacity))
	if animated {
		fmt.Fprintf(b, ` class="%ssig-path-%d"`, prefix, i)
	}
	b.WriteString("/>")
}

// rasterDash rewrites a dash for the rasterizer, which ignores negative
// offsets and applies dashes after the path transform. A negative offset
// is moved forward by one period (twice the length) and placed records are
// scaled into canvas units.
func rasterDash(p source.PathRecord, offset float64) (dash, phase float64) {
	dash, phase = p.Length, offset
	if phase < 0 {
		phase += 2 * dash
	}
	if p.Placement != nil {
		scale := math.Abs(p.Placement.FontSize / source.HanziUnits)
		dash *= scale
		phase *= scale
	}
	return dash, phase
}

// writeKeyframes emits one stroke and one fill animation per path. A single
// forward pass uses per-path delays; looping and erasing express every
// path's keyframes as percentages of one full cycle.
func writeKeyframes(b *strings.Builder, paths []source.PathRecord, tl director.Timeline, s config.Style, prefix string) {
	if !s.Repeat && !s.EraseOnComplete {
		for i := range paths {
			e := tl.Entry(i)
			fmt.Fprintf(b, "@keyframes %sdraw-%d{to{stroke-dashoffset:0}}", prefix, i)
			fmt.Fprintf(b, "@keyframes %sfill-fade-%d{to{fill-opacity:1}}", prefix, i)
			fmt.Fprintf(b, ".%ssig-path-%d{animation:%sdraw-%d %ss linear %ss forwards,%sfill-fade-%d %ss linear %ss forwards}",
				prefix, i,
				prefix, i, effects.Num(e.Duration), effects.Num(e.StrokeDelay),
				prefix, i, effects.Num(director.FillFadeDuration), effects.Num(e.FillDelay))
		}
		return
	}

	cycle := timeline.New(tl.Duration(), s.EraseOnComplete)
	total := cycle.Total()
	iterations := "1"
	if s.Repeat {
		iterations = "infinite"
	}

	for i, p := range paths {
		e := tl.Entry(i)
		times := cycleBreakpoints(cycle, []float64{e.StrokeDelay, e.StrokeEnd(), e.FillDelay, e.FillEnd()})

		fmt.Fprintf(b, "@keyframes %sdraw-%d{", prefix, i)
		writeStops(b, times, total, func(t float64) string {
			return "stroke-dashoffset:" + effects.Num(StrokeOffset(p, e, cycle.Map(t)))
		})
		b.WriteString("}")

		fmt.Fprintf(b, "@keyframes %sfill-fade-%d{", prefix, i)
		writeStops(b, times, total, func(t float64) string {
			return "fill-opacity:" + effects.Num(FillOpacity(e, cycle.Map(t)))
		})
		b.WriteString("}")

		fmt.Fprintf(b, ".%ssig-path-%d{animation:%sdraw-%d %ss linear 0s %s both,%sfill-fade-%d %ss linear 0s %s both}",
			prefix, i,
			prefix, i, effects.Num(total), iterations,
			prefix, i, effects.Num(total), iterations)
	}
}

// cycleBreakpoints lists the wall-clock instants within one cycle where a
// path's state changes slope. Between them the state is linear in time.
func cycleBreakpoints(c timeline.Cycle, sampleTimes []float64) []float64 {
	total := c.Total()
	times := []float64{0, total}
	times = append(times, c.Boundaries()...)
	holdEnd := c.Base + timeline.HoldDuration
	for _, st := range sampleTimes {
		times = append(times, st)
		if c.Erase {
			times = append(times, holdEnd+c.Base-st)
		}
	}

	sort.Float64s(times)
	out := times[:0]
	for _, t := range times {
		if t < 0 || t > total {
			continue
		}
		if len(out) > 0 && t-out[len(out)-1] < 1e-9 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func writeStops(b *strings.Builder, times []float64, total float64, value func(float64) string) {
	last := ""
	for _, t := range times {
		pct := effects.Num(t / total * 100)
		if pct == last {
			continue
		}
		last = pct
		fmt.Fprintf(b, "%s%%{%s}", pct, value(t))
	}
}
