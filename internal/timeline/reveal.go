package timeline

import (
	"image"
	"math"

	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/scene"
)

// minRevealFrames is the floor on the length of a draw or eraser reveal.
const minRevealFrames = 10

// RevealFrames is the length of a draw/eraser reveal: two seconds, at least
// ten frames.
func RevealFrames(fps int) int {
	return max(minRevealFrames, fps*2)
}

// layerFrames renders a prepared layer over base in the layer's mode.
func (t *Timeline) layerFrames(layer scene.Layer, base, img *image.RGBA) []*image.RGBA {
	if layer.DrawMode() == scene.ModeStatic {
		return []*image.RGBA{raster.Overlay(base, img)}
	}
	var tool *hand.Asset
	if t.Tools != nil {
		tool = t.Tools.For(layer.DrawMode())
	}
	return Reveal(base, img, RevealFrames(t.FPS), tool)
}

// Reveal ramps the layer in over count frames with weight
// min(1, 1.2*(i+1)/count). A non-nil tool sweeps left to right across the
// middle of the frame and is gone from the last frame.
func Reveal(base, img *image.RGBA, count int, tool *hand.Asset) []*image.RGBA {
	w, h := base.Rect.Dx(), base.Rect.Dy()
	frames := make([]*image.RGBA, count)
	for i := range frames {
		progress := float64(i+1) / float64(count)
		frame := raster.AddWeighted(base, 1, img, math.Min(1, progress*1.2))
		if tool != nil && i < count-1 {
			tool.Paint(frame, int(progress*float64(w)), h/2)
		}
		frames[i] = frame
	}
	return frames
}
