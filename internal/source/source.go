package source

import (
	"fmt"
	"math"
)

// HanziUnits is the side of the fixed coordinate space used by externally
// sourced stroke data.
const HanziUnits = 1024.0

// Placement positions a record independently of the glyph cursor.
type Placement struct {
	X        float64 `json:"x" yaml:"x"`
	FontSize float64 `json:"fontSize" yaml:"fontSize"`
}

// PathRecord is one drawable unit supplied by a path provider.
type PathRecord struct {
	PathData  string  `json:"d" yaml:"d"`
	Length    float64 `json:"len" yaml:"len"`
	CharIndex int     `json:"index" yaml:"index"`
	// Reversed marks stroke-decomposed glyphs whose reveal runs the other way.
	Reversed     bool       `json:"isHanzi,omitempty" yaml:"isHanzi,omitempty"`
	Placement    *Placement `json:"placement,omitempty" yaml:"placement,omitempty"`
	StrokeIndex  int        `json:"strokeIndex,omitempty" yaml:"strokeIndex,omitempty"`
	TotalStrokes int        `json:"totalStrokes,omitempty" yaml:"totalStrokes,omitempty"`
}

// Viewport is the text bounding box the paths are expressed in.
type Viewport struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// DefaultViewport is used when a provider yields nothing to draw.
var DefaultViewport = Viewport{X: 0, Y: 0, W: 100, H: 100}

// Document is the geometry exchanged with path providers and returned by
// the JSON introspection output.
type Document struct {
	Paths    []PathRecord `json:"paths" yaml:"paths"`
	Viewport Viewport     `json:"viewBox" yaml:"viewBox"`
}

// Source supplies the ordered path records of one render request.
type Source interface {
	Load() (*Document, error)
	Close() error
}

// Validate checks the record invariants a provider must uphold.
func (d *Document) Validate() error {
	for i, p := range d.Paths {
		if p.Length < 0 || math.IsNaN(p.Length) || math.IsInf(p.Length, 0) {
			return fmt.Errorf("path %d: invalid length %v", i, p.Length)
		}
		if p.CharIndex < 0 {
			return fmt.Errorf("path %d: negative char index %d", i, p.CharIndex)
		}
		if p.Placement != nil && p.Placement.FontSize <= 0 {
			return fmt.Errorf("path %d: placement font size must be positive", i)
		}
	}
	if len(d.Paths) > 0 && (d.Viewport.W <= 0 || d.Viewport.H <= 0) {
		return fmt.Errorf("viewBox %vx%v is empty", d.Viewport.W, d.Viewport.H)
	}
	return nil
}

// Normalized returns the document with the default viewport applied when
// there is nothing to draw.
func (d *Document) Normalized() *Document {
	if len(d.Paths) == 0 {
		return &Document{Viewport: DefaultViewport}
	}
	return d
}

// HasReversed reports whether any record comes from stroke-decomposed data.
func (d *Document) HasReversed() bool {
	for _, p := range d.Paths {
		if p.Reversed {
			return true
		}
	}
	return false
}
