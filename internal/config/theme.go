package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Theme is a partial style preset. Only the keys present in the YAML
// document override the base style.
type Theme map[string]any

// Themes is an immutable registry of named presets. Callers receive it at
// call time instead of reaching for package state.
type Themes struct {
	byName map[string]Theme
}

// BuiltinThemes returns the presets shipped with the binary.
func BuiltinThemes() Themes {
	return Themes{byName: map[string]Theme{
		"classic": {
			"fill1": "#111827", "stroke": "#111827",
			"bgTransparent": true,
		},
		"ink": {
			"fill1": "#0f172a", "stroke": "#0f172a", "strokeEnabled": true,
			"bg": "#fdfbf7", "bgTransparent": false, "texture": "tianzige",
			"texColor": "#e11d48", "texOpacity": 0.35,
		},
		"neon": {
			"fillMode": "gradient", "fill1": "#22d3ee", "fill2": "#a855f7",
			"strokeMode": "gradient", "stroke": "#22d3ee", "stroke2": "#a855f7",
			"bg": "#0b1020", "bgTransparent": false, "useGlow": true,
		},
		"rainbow": {
			"fillMode":       "multi",
			"charColors":     []any{"#ef4444", "#f97316", "#eab308", "#22c55e", "#3b82f6", "#8b5cf6"},
			"linkFillStroke": true,
		},
	}}
}

// LoadThemes reads a YAML mapping of theme name to partial style and
// layers it over base. Later definitions win.
func LoadThemes(path string, base Themes) (Themes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Themes{}, err
	}

	var raw map[string]Theme
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Themes{}, fmt.Errorf("decode themes: %w", err)
	}

	merged := make(map[string]Theme, len(base.byName)+len(raw))
	for k, v := range base.byName {
		merged[k] = v
	}
	for k, v := range raw {
		merged[k] = v
	}
	return Themes{byName: merged}, nil
}

// Names returns the registered theme names in sorted order.
func (t Themes) Names() []string {
	names := make([]string, 0, len(t.byName))
	for k := range t.byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Apply layers the named theme over s. Unknown names leave s untouched and
// report false.
func (t Themes) Apply(name string, s Style) (Style, bool, error) {
	theme, ok := t.byName[name]
	if !ok {
		return s, false, nil
	}

	// Round-trip through YAML so the theme keys reuse the Style tags.
	data, err := yaml.Marshal(theme)
	if err != nil {
		return s, true, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, true, fmt.Errorf("theme %s: %w", name, err)
	}
	return s, true, nil
}
