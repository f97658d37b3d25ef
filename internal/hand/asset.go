// Package hand loads the drawing-tool sprites and paints them onto frames.
package hand

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/source"
)

// ErrEmptyMask is returned when a mask has no fully opaque pixel to crop to.
var ErrEmptyMask = errors.New("mask has no opaque pixels")

// Asset is a cropped tool sprite with its normalised masks. It is read-only
// once loaded.
type Asset struct {
	Sprite *image.RGBA
	// Mask is 1 where the tool is opaque, 0 where transparent.
	Mask []float32
	// Inv is 1-Mask.
	Inv    []float32
	Width  int
	Height int
}

// Load reads the hand sprite and its grayscale mask (255 = hand).
func Load(spritePath, maskPath string) (*Asset, error) {
	sprite, err := source.DecodeFile(spritePath)
	if err != nil {
		return nil, fmt.Errorf("hand sprite: %w", err)
	}
	mask, err := source.DecodeFile(maskPath)
	if err != nil {
		return nil, fmt.Errorf("hand mask: %w", err)
	}
	a, err := FromImages(sprite, mask)
	if err != nil {
		return nil, fmt.Errorf("hand %s: %w", spritePath, err)
	}
	return a, nil
}

// FromImages crops sprite and mask to the tight bounding box of mask value
// 255 and zeroes sprite pixels where the mask is 0.
func FromImages(sprite, mask image.Image) (*Asset, error) {
	if sprite.Bounds().Size() != mask.Bounds().Size() {
		return nil, fmt.Errorf("sprite %v and mask %v differ in size", sprite.Bounds().Size(), mask.Bounds().Size())
	}

	gray := toGray(mask)
	box, ok := opaqueBounds(gray)
	if !ok {
		return nil, ErrEmptyMask
	}

	spriteBox := box.Add(sprite.Bounds().Min)
	cropped := raster.ToRGBA(imaging.Crop(sprite, spriteBox))
	return build(cropped, func(x, y int) uint8 {
		return gray.Pix[(box.Min.Y+y)*gray.Stride+box.Min.X+x]
	}), nil
}

// FromAlpha builds an asset whose mask is the sprite's own alpha channel.
// Used for tool sprites shipped as transparent PNGs.
func FromAlpha(sprite image.Image) (*Asset, error) {
	alpha := imaging.Clone(sprite)
	gray := image.NewGray(alpha.Rect)
	for i, j := 3, 0; i < len(alpha.Pix); i, j = i+4, j+1 {
		gray.Pix[j] = alpha.Pix[i]
	}
	return FromImages(alpha, gray)
}

func build(sprite *image.RGBA, maskAt func(x, y int) uint8) *Asset {
	w, h := sprite.Rect.Dx(), sprite.Rect.Dy()
	a := &Asset{
		Sprite: sprite,
		Mask:   make([]float32, w*h),
		Inv:    make([]float32, w*h),
		Width:  w,
		Height: h,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := maskAt(x, y)
			a.Mask[y*w+x] = float32(m) / 255
			a.Inv[y*w+x] = float32(255-m) / 255
			if m == 0 {
				off := y*sprite.Stride + x*4
				sprite.Pix[off+0] = 0
				sprite.Pix[off+1] = 0
				sprite.Pix[off+2] = 0
			}
			sprite.Pix[y*sprite.Stride+x*4+3] = 0xff
		}
	}
	return a
}

// opaqueBounds returns the inclusive-exclusive box around every 255 pixel.
func opaqueBounds(gray *image.Gray) (image.Rectangle, bool) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			if v != 255 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return g
}
