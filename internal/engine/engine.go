package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"
	"time"

	"github.com/srwiley/oksvg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/sigdraw/internal/analyzer"
	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/director"
	"github.com/ivlev/sigdraw/internal/raster"
	"github.com/ivlev/sigdraw/internal/renderer"
	"github.com/ivlev/sigdraw/internal/source"
	"github.com/ivlev/sigdraw/internal/system"
	"github.com/ivlev/sigdraw/internal/timeline"
	"github.com/ivlev/sigdraw/internal/video"
)

// Project is one render request: a path source, a normalized style and the
// collaborators that turn them into output bytes.
type Project struct {
	Config     *config.Config
	Source     source.Source
	Renderer   *renderer.Renderer
	Rasterizer raster.Rasterizer
	Encoder    video.FrameEncoder
	Still      video.ImageEncoder
	Detector   analyzer.Detector
	Pool       *system.ImagePool
	Logger     *zap.Logger

	once sync.Once
	doc  *source.Document
	tl   director.Timeline
	err  error
}

// Option customizes a Project.
type Option func(*Project)

func WithRenderer(r *renderer.Renderer) Option { return func(p *Project) { p.Renderer = r } }

func WithRasterizer(r raster.Rasterizer) Option { return func(p *Project) { p.Rasterizer = r } }

func WithEncoder(e video.FrameEncoder) Option { return func(p *Project) { p.Encoder = e } }

func WithImageEncoder(e video.ImageEncoder) Option { return func(p *Project) { p.Still = e } }

func WithDetector(d analyzer.Detector) Option { return func(p *Project) { p.Detector = d } }

func WithPool(pool *system.ImagePool) Option { return func(p *Project) { p.Pool = pool } }

func WithLogger(l *zap.Logger) Option { return func(p *Project) { p.Logger = l } }

// NewProject wires the default collaborators. cfg.Style is expected to be
// normalized already.
func NewProject(cfg *config.Config, src source.Source, opts ...Option) *Project {
	p := &Project{
		Config:     cfg,
		Source:     src,
		Renderer:   renderer.New(nil),
		Rasterizer: raster.NewSVG(),
		Encoder:    video.NewGIFEncoder(cfg.Style.GifFPS, cfg.Style.GifQuality),
		Still:      video.NewPNGEncoder(),
		Pool:       system.NewImagePool(),
		Logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render writes the output selected by Config.Format.
func (p *Project) Render(ctx context.Context, w io.Writer) error {
	switch p.Config.Format {
	case config.FormatSVG, "":
		return p.RenderSVG(w)
	case config.FormatPNG:
		return p.RenderPNG(w)
	case config.FormatGIF:
		return p.RenderGIF(ctx, w)
	case config.FormatJSON:
		return p.RenderJSON(w)
	default:
		return exportErr("render", KindInput, fmt.Errorf("unknown format %q", p.Config.Format))
	}
}

// load reads the document once and allocates its timeline.
func (p *Project) load() (*source.Document, director.Timeline, error) {
	p.once.Do(func() {
		doc, err := p.Source.Load()
		if err == nil {
			err = doc.Validate()
		}
		if err != nil {
			p.err = exportErr("load", KindInput, err)
			return
		}
		p.doc = doc.Normalized()
		p.tl = director.Allocate(p.doc.Paths, p.Config.Style.Speed)
		p.Logger.Debug("[*] Timeline allocated",
			zap.Int("paths", p.tl.Len()),
			zap.Int("chars", p.tl.Groups()),
			zap.Float64("duration", p.tl.Duration()))
	})
	return p.doc, p.tl, p.err
}

// RenderSVG writes the animated preview document, or the fully drawn one
// when Config.Static is set.
func (p *Project) RenderSVG(w io.Writer) error {
	doc, tl, err := p.load()
	if err != nil {
		return err
	}

	mode := renderer.ModeDeclarative
	if p.Config.Static {
		mode = renderer.ModeStatic
	}
	out, err := p.Renderer.Render(doc, p.Config.Style, tl, renderer.Options{
		Mode:     mode,
		IDPrefix: p.Config.IDPrefix,
		Minify:   p.Config.Minify,
	})
	if err != nil {
		return exportErr("svg", KindInput, err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return exportErr("svg", KindWrite, err)
	}
	p.Logger.Info("[*] SVG ready", zap.String("mode", mode.String()), zap.Int("bytes", len(out)))
	return nil
}

// RenderPNG rasterizes the fully drawn signature at canvas size.
func (p *Project) RenderPNG(w io.Writer) error {
	doc, tl, err := p.load()
	if err != nil {
		return err
	}

	out, err := p.Renderer.Render(doc, p.Config.Style, tl, renderer.Options{
		Mode:     renderer.ModeStatic,
		Target:   renderer.TargetRaster,
		IDPrefix: p.Config.IDPrefix,
	})
	if err != nil {
		return exportErr("png", KindInput, err)
	}

	l := renderer.NewLayout(doc, p.Config.Style)
	rect := image.Rect(0, 0, max(1, int(math.Round(l.CanvasW))), max(1, int(math.Round(l.CanvasH))))
	img := p.Pool.Get(rect)
	defer p.Pool.Put(img)

	if err := p.Rasterizer.Rasterize(out, img); err != nil {
		return exportErr("png", KindRasterize, err)
	}
	var buf bytes.Buffer
	if err := p.Still.EncodeImage(&buf, img); err != nil {
		return exportErr("png", KindEncode, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return exportErr("png", KindWrite, err)
	}
	p.Logger.Info("[*] PNG ready", zap.Int("width", rect.Dx()), zap.Int("height", rect.Dy()))
	return nil
}

// RenderJSON passes the geometry through untouched.
func (p *Project) RenderJSON(w io.Writer) error {
	doc, _, err := p.load()
	if err != nil {
		return err
	}
	if err := source.WriteJSON(w, doc); err != nil {
		return exportErr("json", KindWrite, err)
	}
	return nil
}

// WriteTiming dumps the allocated timeline as a YAML scenario.
func (p *Project) WriteTiming(w io.Writer) error {
	doc, tl, err := p.load()
	if err != nil {
		return err
	}
	scenario := director.NewScenario(doc.Paths, p.Config.Style.Speed, tl)
	if err := director.EncodeScenario(w, scenario); err != nil {
		return exportErr("timing", KindWrite, err)
	}
	return nil
}

// FramePlan describes the frames of one GIF export.
type FramePlan struct {
	Cycle  timeline.Cycle
	FPS    int
	Frames int
	Width  int
	Height int
}

// Time is the wall-clock instant of frame i.
func (f FramePlan) Time(i int) float64 {
	return float64(i) / float64(f.FPS)
}

// Plan computes the frame schedule for the loaded document.
func (p *Project) Plan() (FramePlan, error) {
	doc, tl, err := p.load()
	if err != nil {
		return FramePlan{}, err
	}
	return planFrames(doc, tl, p.Config.Style), nil
}

func planFrames(doc *source.Document, tl director.Timeline, s config.Style) FramePlan {
	cycle := timeline.New(tl.Duration(), s.EraseOnComplete)
	fps := s.GifFPS
	if fps <= 0 {
		fps = config.DefaultGifFPS
	}
	n := timeline.FrameCount(cycle.Total(), fps)
	if len(doc.Paths) == 0 || n < 1 {
		n = 1
	}
	l := renderer.NewLayout(doc, s)
	w, h := raster.TargetSize(l.CanvasW, l.CanvasH)
	return FramePlan{Cycle: cycle, FPS: fps, Frames: n, Width: max(w, 1), Height: max(h, 1)}
}

// RenderGIF samples every frame of one cycle, rasterizes the frames in
// parallel and encodes them as a looping GIF. Nothing is written unless
// every frame succeeds.
func (p *Project) RenderGIF(ctx context.Context, w io.Writer) error {
	doc, tl, err := p.load()
	if err != nil {
		return err
	}
	style := p.Config.Style
	plan := planFrames(doc, tl, style)
	rect := image.Rect(0, 0, plan.Width, plan.Height)

	workers := min(system.Workers(p.Config.Workers, int64(plan.Width*plan.Height*4)), plan.Frames)

	p.Logger.Info("[*] GIF export",
		zap.Int("frames", plan.Frames),
		zap.Int("fps", plan.FPS),
		zap.Float64("cycle", plan.Cycle.Total()),
		zap.String("size", fmt.Sprintf("%dx%d", plan.Width, plan.Height)),
		zap.Int("workers", workers))

	det := p.statsDetector()
	frames := make([]*image.RGBA, plan.Frames)
	inkBlocks := make([]int, plan.Frames)
	coverage := make([]float64, plan.Frames)
	defer func() {
		for _, f := range frames {
			p.Pool.Put(f)
		}
	}()

	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < plan.Frames; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := p.renderFrame(doc, tl, plan, i, rect)
			if err != nil {
				return err
			}
			frames[i] = img
			if det != nil {
				blocks, err := det.Detect(img)
				if err == nil {
					inkBlocks[i] = len(blocks)
				}
				if m, ok := det.(coverageMeter); ok {
					coverage[i] = m.Coverage(img)
				}
			}
			p.Logger.Debug("[>] Frame ready", zap.Int("frame", i+1), zap.Int("of", plan.Frames))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	encodeStart := time.Now()
	var buf bytes.Buffer
	if err := p.Encoder.EncodeFrames(ctx, &buf, frames); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return exportErr("gif", KindEncode, err)
	}
	encodeTime := time.Since(encodeStart)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return exportErr("gif", KindWrite, err)
	}

	p.Logger.Info("[*] GIF ready", zap.Int("bytes", buf.Len()))
	if p.Config.ShowStats {
		p.reportStats(plan, inkBlocks, coverage, renderTime, encodeTime)
	}
	return nil
}

func (p *Project) renderFrame(doc *source.Document, tl director.Timeline, plan FramePlan, i int, rect image.Rectangle) (*image.RGBA, error) {
	markup, err := p.Renderer.Render(doc, p.Config.Style, tl, renderer.Options{
		Mode:     renderer.ModeResolved,
		Time:     plan.Cycle.Map(plan.Time(i)),
		Target:   renderer.TargetRaster,
		IDPrefix: fmt.Sprintf("frame%d-", i),
	})
	if err != nil {
		return nil, &ExportError{Op: "gif", Kind: KindRasterize, Frame: i, Err: err}
	}

	img := p.Pool.Get(rect)
	if err := p.Rasterizer.Rasterize(markup, img); err != nil {
		p.Pool.Put(img)
		return nil, &ExportError{Op: "gif", Kind: KindRasterize, Frame: i, Err: err}
	}
	return img, nil
}

// coverageMeter is implemented by detectors that can measure the inked
// share of a whole frame.
type coverageMeter interface {
	Coverage(img image.Image) float64
}

// statsDetector returns the detector used for the stats report, building
// an ink detector against the card color when none was injected.
func (p *Project) statsDetector() analyzer.Detector {
	if !p.Config.ShowStats {
		return nil
	}
	if p.Detector != nil {
		return p.Detector
	}
	var bg color.Color
	if !p.Config.Style.BgTransparent {
		if c, err := oksvg.ParseSVGColor(p.Config.Style.Bg); err == nil {
			bg = c
		}
	}
	det, err := analyzer.NewDetector("ink", bg)
	if err != nil {
		p.Logger.Warn("[!] Stats disabled", zap.Error(err))
		return nil
	}
	return det
}

func (p *Project) reportStats(plan FramePlan, inkBlocks []int, coverage []float64, renderTime, encodeTime time.Duration) {
	blank, peak := 0, 0
	for _, n := range inkBlocks {
		if n == 0 {
			blank++
		}
		peak = max(peak, n)
	}
	peakCoverage := 0.0
	for _, c := range coverage {
		peakCoverage = math.Max(peakCoverage, c)
	}
	total := renderTime + encodeTime
	p.Logger.Info("[*] Performance report",
		zap.Int("frames", plan.Frames),
		zap.Duration("render", renderTime),
		zap.Duration("encode", encodeTime),
		zap.Float64("effectiveFPS", float64(plan.Frames)/math.Max(total.Seconds(), 1e-9)),
		zap.Int("blankFrames", blank),
		zap.Int("peakInkBlocks", peak),
		zap.Float64("peakCoverage", peakCoverage))
}
