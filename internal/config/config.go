package config

import (
	"math"
	"strings"
)

const (
	FillSingle   = "single"
	FillGradient = "gradient"
	FillMulti    = "multi"

	BgSolid    = "solid"
	BgGradient = "gradient"

	SizeAuto   = "auto"
	SizeCustom = "custom"

	TextureNone = "none"
)

// Textures lists the recognized texture overlays.
var Textures = []string{"none", "grid", "dots", "lines", "cross", "tianzige", "mizige"}

const (
	MinGifFPS         = 10
	MaxGifFPS         = 60
	DefaultGifFPS     = 30
	MinGifQuality     = 1
	MaxGifQuality     = 20
	DefaultGifQuality = 5
)

// Style is the complete set of visual parameters of one render. Every field
// is populated; optional inputs are merged into Default() once at the edge.
type Style struct {
	FontSize float64 `yaml:"fontSize"`
	Speed    float64 `yaml:"speed"`
	Repeat   bool    `yaml:"repeat"`
	// EraseOnComplete plays draw, hold, erase and blank as one cycle.
	EraseOnComplete bool `yaml:"eraseOnComplete"`

	Bg            string  `yaml:"bg"`
	Bg2           string  `yaml:"bg2"`
	BgMode        string  `yaml:"bgMode"`
	BgTransparent bool    `yaml:"bgTransparent"`
	BorderRadius  float64 `yaml:"borderRadius"`
	CardPadding   float64 `yaml:"cardPadding"`
	BgSizeMode    string  `yaml:"bgSizeMode"`
	BgWidth       float64 `yaml:"bgWidth"`
	BgHeight      float64 `yaml:"bgHeight"`

	Stroke           string   `yaml:"stroke"`
	Stroke2          string   `yaml:"stroke2"`
	StrokeEnabled    bool     `yaml:"strokeEnabled"`
	StrokeMode       string   `yaml:"strokeMode"`
	StrokeCharColors []string `yaml:"strokeCharColors"`

	FillMode   string   `yaml:"fillMode"`
	Fill1      string   `yaml:"fill1"`
	Fill2      string   `yaml:"fill2"`
	CharColors []string `yaml:"charColors"`

	Texture      string  `yaml:"texture"`
	TexColor     string  `yaml:"texColor"`
	TexSize      float64 `yaml:"texSize"`
	TexThickness float64 `yaml:"texThickness"`
	TexOpacity   float64 `yaml:"texOpacity"`

	UseGlow   bool `yaml:"useGlow"`
	UseShadow bool `yaml:"useShadow"`

	// LinkFillStroke makes the stroke follow fill mode and colors.
	LinkFillStroke bool `yaml:"linkFillStroke"`

	GifFPS     int `yaml:"gifFps"`
	GifQuality int `yaml:"gifQuality"`
}

// Default returns the base style every request starts from.
func Default() Style {
	return Style{
		FontSize: 100,
		Speed:    1,
		Repeat:   false,

		Bg:            "#ffffff",
		Bg2:           "#f3f4f6",
		BgMode:        BgSolid,
		BgTransparent: true,
		BorderRadius:  8,
		CardPadding:   16,
		BgSizeMode:    SizeAuto,

		Stroke:        "#1f2937",
		Stroke2:       "#6b7280",
		StrokeEnabled: true,
		StrokeMode:    FillSingle,

		FillMode: FillSingle,
		Fill1:    "#111827",
		Fill2:    "#4b5563",

		Texture:      TextureNone,
		TexColor:     "#d1d5db",
		TexSize:      24,
		TexThickness: 1,
		TexOpacity:   0.5,

		GifFPS:     DefaultGifFPS,
		GifQuality: DefaultGifQuality,
	}
}

// Normalize clamps numeric fields and replaces unknown enum values with
// defaults. It returns the names of the fields it had to reset.
func (s Style) Normalize() (Style, []string) {
	def := Default()
	var reset []string

	if !finitePositive(s.FontSize) {
		s.FontSize = def.FontSize
		reset = append(reset, "fontSize")
	}

	s.FillMode = oneOf(s.FillMode, def.FillMode, &reset, "fillMode", FillSingle, FillGradient, FillMulti)
	s.StrokeMode = oneOf(s.StrokeMode, def.StrokeMode, &reset, "strokeMode", FillSingle, FillGradient, FillMulti)
	s.BgMode = oneOf(s.BgMode, def.BgMode, &reset, "bgMode", BgSolid, BgGradient)
	s.BgSizeMode = oneOf(s.BgSizeMode, def.BgSizeMode, &reset, "bgSizeMode", SizeAuto, SizeCustom)
	s.Texture = oneOf(s.Texture, def.Texture, &reset, "texture", Textures...)

	if s.GifFPS < MinGifFPS {
		s.GifFPS = MinGifFPS
	} else if s.GifFPS > MaxGifFPS {
		s.GifFPS = MaxGifFPS
	}
	if s.GifQuality < MinGifQuality {
		s.GifQuality = MinGifQuality
	} else if s.GifQuality > MaxGifQuality {
		s.GifQuality = MaxGifQuality
	}

	if s.TexSize < 1 || math.IsNaN(s.TexSize) {
		s.TexSize = 1
	}
	s.TexOpacity = clamp01(s.TexOpacity)
	if s.TexThickness < 0 {
		s.TexThickness = 0
	}
	if s.CardPadding < 0 {
		s.CardPadding = 0
	}
	if s.BgWidth < 0 {
		s.BgWidth = 0
	}
	if s.BgHeight < 0 {
		s.BgHeight = 0
	}

	if strings.EqualFold(s.Bg, "transparent") {
		s.BgTransparent = true
	}

	if s.LinkFillStroke {
		s.StrokeMode = s.FillMode
		s.Stroke = s.Fill1
		s.Stroke2 = s.Fill2
		s.StrokeCharColors = s.CharColors
	}

	return s, reset
}

func oneOf(v, def string, reset *[]string, name string, allowed ...string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	*reset = append(*reset, name)
	return def
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Config describes one render request.
type Config struct {
	InputPath  string
	OutputPath string
	Format     string
	Static     bool
	Minify     bool
	Workers    int
	IDPrefix   string
	ShowStats  bool
	Style      Style
}

const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatJSON = "json"
)
