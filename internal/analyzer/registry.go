package analyzer

import (
	"fmt"
	"image/color"
)

// NewDetector creates a detector for frames painted over bg. A nil bg means
// a transparent canvas.
func NewDetector(variant string, bg color.Color) (Detector, error) {
	switch variant {
	case "ink", "":
		d := NewInkDetector()
		d.Background = bg
		return d, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
