package analyzer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ivlev/sketch2video/internal/raster"
)

const (
	// DefaultWindow is the side of the neighbourhood the adaptive threshold
	// compares each pixel against.
	DefaultWindow = 15
	// DefaultBias is subtracted from the local mean; a pixel must be darker
	// than mean-bias to count as ink.
	DefaultBias = 10
)

// Prepared is a source image normalised to canvas size together with the
// buffers the draw engine consumes.
type Prepared struct {
	Color *image.RGBA
	Gray  *image.Gray
	// Ink is 0 where the pixel is drawn content and 255 elsewhere.
	Ink *image.Gray
}

// Width and Height report the canvas size the image was normalised to.
func (p *Prepared) Width() int  { return p.Color.Rect.Dx() }
func (p *Prepared) Height() int { return p.Color.Rect.Dy() }

// Preprocess resizes img to exactly width x height, converts it to grayscale
// and computes the binary ink mask. Aspect ratio is not corrected here.
func Preprocess(img image.Image, width, height int) (*Prepared, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty source image")
	}

	resized := imaging.Resize(img, width, height, imaging.Linear)
	color := raster.ToRGBA(resized)
	gray := Grayscale(color)
	ink := AdaptiveThreshold(gray, DefaultWindow, DefaultBias)

	return &Prepared{Color: color, Gray: gray, Ink: ink}, nil
}

// Grayscale converts an image using BT.601 luma weights.
func Grayscale(img image.Image) *image.Gray {
	rgba := raster.ToRGBA(img)
	bounds := rgba.Bounds()
	gray := image.NewGray(bounds)

	for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+1 {
		r := float64(rgba.Pix[i+0])
		g := float64(rgba.Pix[i+1])
		b := float64(rgba.Pix[i+2])
		gray.Pix[j] = uint8(0.299*r + 0.587*g + 0.114*b + 0.5)
	}

	return gray
}
