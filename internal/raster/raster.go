// Package raster holds the small set of RGBA frame operations shared by the
// draw engine and the timeline compositor.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// White returns an opaque all-white frame of the given size.
func White(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// Black returns an opaque all-black frame of the given size.
func Black(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// CopyInto overwrites dst with src. Both must share bounds and stride.
func CopyInto(dst, src *image.RGBA) {
	copy(dst.Pix, src.Pix)
}

// ToRGBA converts any image into a tightly packed, zero-origin RGBA buffer.
// Images that already satisfy that layout are returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if ok && rgba.Stride == bounds.Dx()*4 && bounds.Min == (image.Point{}) {
		return rgba
	}
	rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// AddWeighted returns clamp(a*wa + b*wb) per colour channel, rounded to
// nearest. Alpha is forced opaque. a and b must have identical bounds.
func AddWeighted(a *image.RGBA, wa float64, b *image.RGBA, wb float64) *image.RGBA {
	out := image.NewRGBA(a.Rect)
	for i := 0; i < len(a.Pix); i += 4 {
		out.Pix[i+0] = saturate(float64(a.Pix[i+0])*wa + float64(b.Pix[i+0])*wb)
		out.Pix[i+1] = saturate(float64(a.Pix[i+1])*wa + float64(b.Pix[i+1])*wb)
		out.Pix[i+2] = saturate(float64(a.Pix[i+2])*wa + float64(b.Pix[i+2])*wb)
		out.Pix[i+3] = 0xff
	}
	return out
}

// Overlay is the additive composite used throughout the layered mode:
// base + layer, saturating at white.
func Overlay(base, layer *image.RGBA) *image.RGBA {
	return AddWeighted(base, 1, layer, 1)
}

// Scale multiplies every colour channel by f, truncating toward zero.
func Scale(img *image.RGBA, f float64) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i+0] = uint8(float64(img.Pix[i+0]) * f)
		out.Pix[i+1] = uint8(float64(img.Pix[i+1]) * f)
		out.Pix[i+2] = uint8(float64(img.Pix[i+2]) * f)
		out.Pix[i+3] = 0xff
	}
	return out
}

// Fill paints every pixel of img with c.
func Fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

func saturate(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
