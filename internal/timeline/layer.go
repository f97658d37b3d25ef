package timeline

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/scene"
	"github.com/ivlev/sketch2video/internal/source"
)

var errNoImagePath = errors.New("layer has no image_path")

// Loader decodes layer images once per path.
type Loader struct {
	cache map[string]image.Image
}

func NewLoader() *Loader {
	return &Loader{cache: make(map[string]image.Image)}
}

// Load returns the decoded image at path.
func (l *Loader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, errNoImagePath
	}
	if img, ok := l.cache[path]; ok {
		return img, nil
	}
	img, err := source.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	l.cache[path] = img
	return img, nil
}

// Prepare loads a layer and fits it to a width x height canvas: scale, resize
// to the canvas, translate with clipping, then opacity.
func (l *Loader) Prepare(layer scene.Layer, width, height int) (*image.RGBA, error) {
	src, err := l.Load(layer.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", layer.ImagePath, err)
	}

	img := src
	if s := layer.ScaleFactor(); s != 1 {
		b := src.Bounds()
		nw, nh := int(float64(b.Dx())*s), int(float64(b.Dy())*s)
		if nw > 0 && nh > 0 {
			img = imaging.Resize(src, nw, nh, imaging.Linear)
		}
	}

	out := raster.ToRGBA(imaging.Resize(img, width, height, imaging.Linear))
	if layer.Position != (scene.Offset{}) {
		out = Translate(out, layer.Position.X, layer.Position.Y)
	}
	if a := layer.Alpha(); a < 1 {
		out = raster.Scale(out, a)
	}
	return out, nil
}

// Translate moves img by (dx, dy) over a black frame of the same size.
// Pixels pushed past the edge are dropped.
func Translate(img *image.RGBA, dx, dy int) *image.RGBA {
	b := img.Bounds()
	out := raster.Black(b.Dx(), b.Dy())
	dst := b.Add(image.Pt(dx, dy)).Intersect(out.Bounds())
	if dst.Empty() {
		return out
	}
	draw.Draw(out, dst, img, dst.Min.Sub(image.Pt(dx, dy)), draw.Src)
	return out
}
