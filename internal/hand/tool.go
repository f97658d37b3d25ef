package hand

import (
	"fmt"
	"log"
	"os"

	"github.com/ivlev/sketch2video/internal/source"
)

// Tools bundles the sprites the layered mode can show.
type Tools struct {
	Hand   *Asset
	Eraser *Asset
}

// LoadEraser reads a transparent eraser sprite; its alpha channel is the mask.
func LoadEraser(path string) (*Asset, error) {
	img, err := source.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("eraser sprite: %w", err)
	}
	return FromAlpha(img)
}

// NewTools wraps the hand and tries to load the optional eraser. A missing
// or broken eraser is not an error: the hand stands in for it.
func NewTools(h *Asset, eraserPath string) *Tools {
	t := &Tools{Hand: h}
	if eraserPath == "" {
		return t
	}
	if _, err := os.Stat(eraserPath); err != nil {
		return t
	}
	eraser, err := LoadEraser(eraserPath)
	if err != nil {
		log.Printf("[!] Ластик недоступен, используется рука: %v", err)
		return t
	}
	t.Eraser = eraser
	return t
}

// For returns the sprite used by a layer drawing mode.
func (t *Tools) For(mode string) *Asset {
	if mode == "eraser" && t.Eraser != nil {
		return t.Eraser
	}
	return t.Hand
}
