package analyzer

import "image"

// Block is a connected region of drawn pixels in a frame.
type Block struct {
	Rect image.Rectangle
	// Coverage is the share of the block's pixels that carry ink.
	Coverage float64
}

// Detector finds drawn regions in a rendered frame.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
