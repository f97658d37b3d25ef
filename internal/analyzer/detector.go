package analyzer

import "image"

// Block represents a detected region of interest in an image
type Block struct {
	Rect       image.Rectangle
	Type       string  // "text", "column", "unknown"
	Confidence float64 // 0.0-1.0
}

// Center returns the block centre normalised to the given canvas size.
func (b Block) Center(width, height int) (float64, float64) {
	cx := float64(b.Rect.Min.X) + float64(b.Rect.Dx())/2
	cy := float64(b.Rect.Min.Y) + float64(b.Rect.Dy())/2
	return cx / float64(width), cy / float64(height)
}

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
