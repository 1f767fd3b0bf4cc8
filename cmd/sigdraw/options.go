package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/sigdraw/internal/config"
	"github.com/ivlev/sigdraw/internal/source"
)

// options holds the flags shared by every subcommand plus the render-only
// ones.
type options struct {
	input      string
	text       string
	output     string
	configPath string
	theme      string
	themesPath string
	verbose    bool

	speed    float64
	fontSize float64
	repeat   bool
	erase    bool
	fps      int
	quality  int

	format   string
	static   bool
	minify   bool
	workers  int
	idPrefix string
	stats    bool
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "path document (.json, .yaml); default: newest file in "+inputDir+"/")
	f.StringVar(&o.text, "text", "", "render text with the built-in box glyphs instead of a document")
	f.StringVarP(&o.output, "output", "o", "", "output path, - for stdout; default: generated in "+outputDir+"/")
	f.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "TOML defaults file")
	f.StringVar(&o.theme, "theme", "", "style preset name")
	f.StringVar(&o.themesPath, "themes", "", "YAML file with extra style presets")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	f.Float64Var(&o.speed, "speed", 1, "characters per second")
	f.Float64Var(&o.fontSize, "font-size", 100, "font size of --text glyphs")
	f.BoolVar(&o.repeat, "repeat", false, "loop the animated preview")
	f.BoolVar(&o.erase, "erase", false, "draw, hold, erase and pause as one cycle")
	f.IntVar(&o.fps, "fps", config.DefaultGifFPS, fmt.Sprintf("GIF frame rate (%d-%d)", config.MinGifFPS, config.MaxGifFPS))
	f.IntVar(&o.quality, "quality", config.DefaultGifQuality, fmt.Sprintf("GIF quality, %d best to %d fastest", config.MinGifQuality, config.MaxGifQuality))
}

// prepare merges defaults, the TOML file, the theme and explicit flags into
// one normalized config and opens the path source.
func (o *options) prepare(cmd *cobra.Command, logger *zap.Logger) (*config.Config, source.Source, error) {
	fileCfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	style, err := o.style(cmd, fileCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cfg := &config.Config{
		Format:    o.format,
		Static:    o.static,
		Minify:    o.minify,
		Workers:   o.workers,
		IDPrefix:  o.idPrefix,
		ShowStats: o.stats,
		Style:     style,
	}
	r := fileCfg.Render
	if r.Workers != nil && !cmd.Flags().Changed("workers") {
		cfg.Workers = *r.Workers
	}
	if r.Minify != nil && !cmd.Flags().Changed("minify") {
		cfg.Minify = *r.Minify
	}

	src, input, err := openSource(o.input, o.text, style.FontSize, logger)
	if err != nil {
		return nil, nil, err
	}
	cfg.InputPath = input
	return cfg, src, nil
}

func (o *options) style(cmd *cobra.Command, fileCfg config.FileConfig, logger *zap.Logger) (config.Style, error) {
	s := fileCfg.Apply(config.Default())

	themes := config.BuiltinThemes()
	themesPath := o.themesPath
	if themesPath == "" && fileCfg.Render.Themes != nil {
		themesPath = *fileCfg.Render.Themes
	}
	if themesPath != "" {
		loaded, err := config.LoadThemes(themesPath, themes)
		if err != nil {
			return s, fmt.Errorf("failed to load themes: %w", err)
		}
		themes = loaded
	}

	theme := o.theme
	if theme == "" && fileCfg.Render.Theme != nil {
		theme = *fileCfg.Render.Theme
	}
	if theme != "" {
		applied, ok, err := themes.Apply(theme, s)
		if err != nil {
			return s, err
		}
		if !ok {
			logger.Warn("[!] Unknown theme, using defaults", zap.String("theme", theme), zap.Strings("known", themes.Names()))
		}
		s = applied
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		s.Speed = o.speed
	}
	if flags.Changed("font-size") {
		s.FontSize = o.fontSize
	}
	if flags.Changed("repeat") {
		s.Repeat = o.repeat
	}
	if flags.Changed("erase") {
		s.EraseOnComplete = o.erase
	}
	if flags.Changed("fps") {
		s.GifFPS = o.fps
	}
	if flags.Changed("quality") {
		s.GifQuality = o.quality
	}

	s, reset := s.Normalize()
	for _, field := range reset {
		logger.Warn("[!] Invalid style value replaced with default", zap.String("field", field))
	}
	return s, nil
}
