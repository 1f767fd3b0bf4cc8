package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML defaults file. Pointer fields distinguish
// "not set" from zero values.
type FileConfig struct {
	Render RenderConfig `toml:"render"`
	Style  StyleConfig  `toml:"style"`
	GIF    GIFConfig    `toml:"gif"`
}

// RenderConfig maps render-related settings.
type RenderConfig struct {
	Workers *int    `toml:"workers"`
	Theme   *string `toml:"theme"`
	Themes  *string `toml:"themes"`
	Minify  *bool   `toml:"minify"`
}

// StyleConfig maps the style overrides a user keeps between runs.
type StyleConfig struct {
	FontSize        *float64 `toml:"font-size"`
	Speed           *float64 `toml:"speed"`
	Repeat          *bool    `toml:"repeat"`
	EraseOnComplete *bool    `toml:"erase-on-complete"`
	Fill            *string  `toml:"fill"`
	Stroke          *string  `toml:"stroke"`
	Background      *string  `toml:"background"`
	Texture         *string  `toml:"texture"`
	Glow            *bool    `toml:"glow"`
	Shadow          *bool    `toml:"shadow"`
}

// GIFConfig maps GIF export settings.
type GIFConfig struct {
	FPS     *int `toml:"fps"`
	Quality *int `toml:"quality"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply merges the fields set in the file over s.
func (f FileConfig) Apply(s Style) Style {
	st := f.Style
	if st.FontSize != nil {
		s.FontSize = *st.FontSize
	}
	if st.Speed != nil {
		s.Speed = *st.Speed
	}
	if st.Repeat != nil {
		s.Repeat = *st.Repeat
	}
	if st.EraseOnComplete != nil {
		s.EraseOnComplete = *st.EraseOnComplete
	}
	if st.Fill != nil {
		s.Fill1 = *st.Fill
	}
	if st.Stroke != nil {
		s.Stroke = *st.Stroke
	}
	if st.Background != nil {
		s.Bg = *st.Background
		s.BgTransparent = *st.Background == "transparent"
	}
	if st.Texture != nil {
		s.Texture = *st.Texture
	}
	if st.Glow != nil {
		s.UseGlow = *st.Glow
	}
	if st.Shadow != nil {
		s.UseShadow = *st.Shadow
	}
	if f.GIF.FPS != nil {
		s.GifFPS = *f.GIF.FPS
	}
	if f.GIF.Quality != nil {
		s.GifQuality = *f.GIF.Quality
	}
	return s
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "sigdraw", "config.toml")
}
