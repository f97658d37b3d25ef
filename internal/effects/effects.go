// Package effects implements the per-layer entrance animations and the
// post-draw camera zoom used by the slide timeline.
package effects

import (
	"image"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ivlev/sketch2video/internal/raster"
)

// Effect composes one entrance frame of layer over base at the given
// progress in (0,1]. Inputs are never modified.
type Effect interface {
	Apply(base, layer *image.RGBA, progress float64) *image.RGBA
}

// Entrance looks up an entrance animation by type. Unknown and empty types
// fall back to a plain overlay.
func Entrance(kind string) Effect {
	switch strings.ToLower(kind) {
	case "fade_in":
		return &FadeIn{}
	case "slide_in_left":
		return &SlideIn{FromRight: false}
	case "slide_in_right":
		return &SlideIn{FromRight: true}
	case "zoom_in":
		return &ZoomIn{}
	default:
		return &DefaultEffect{}
	}
}

// Frames renders count entrance frames with progress (i+1)/count.
func Frames(e Effect, base, layer *image.RGBA, count int) []*image.RGBA {
	out := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		progress := float64(i+1) / float64(count)
		if progress >= 1 {
			out = append(out, raster.Overlay(base, layer))
			continue
		}
		out = append(out, e.Apply(base, layer, progress))
	}
	return out
}

type DefaultEffect struct{}

func (e *DefaultEffect) Apply(base, layer *image.RGBA, _ float64) *image.RGBA {
	return raster.Overlay(base, layer)
}

// FadeIn ramps the layer weight with progress.
type FadeIn struct{}

func (e *FadeIn) Apply(base, layer *image.RGBA, progress float64) *image.RGBA {
	return raster.AddWeighted(base, 1, layer, progress)
}

// SlideIn rolls the layer horizontally so it travels in from one side. The
// roll wraps pixels around the frame edge.
type SlideIn struct {
	FromRight bool
}

func (e *SlideIn) Apply(base, layer *image.RGBA, progress float64) *image.RGBA {
	w := base.Rect.Dx()
	offset := int((1 - progress) * float64(w))
	if offset >= w {
		return raster.Clone(base)
	}
	if !e.FromRight {
		offset = -offset
	}
	return raster.Overlay(base, roll(layer, offset))
}

// ZoomIn grows the layer from half size, centred, replacing base pixels.
type ZoomIn struct{}

func (e *ZoomIn) Apply(base, layer *image.RGBA, progress float64) *image.RGBA {
	scale := 0.5 + progress*0.5
	w, h := layer.Rect.Dx(), layer.Rect.Dy()
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw <= 0 || nh <= 0 {
		return raster.Overlay(base, layer)
	}

	resized := imaging.Resize(layer, nw, nh, imaging.Linear)
	out := raster.Clone(base)
	at := image.Pt((w-nw)/2, (h-nh)/2)
	draw.Draw(out, image.Rectangle{Min: at, Max: at.Add(image.Pt(nw, nh))}, resized, image.Point{}, draw.Src)
	return out
}

// roll shifts every row by dx pixels with wraparound.
func roll(img *image.RGBA, dx int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewRGBA(img.Rect)
	dx = ((dx % w) + w) % w
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		copy(dst[dx*4:], src[:(w-dx)*4])
		copy(dst[:dx*4], src[(w-dx)*4:])
	}
	return out
}
