package effects

import (
	"image"
	"strings"

	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/renderer"
	"github.com/ivlev/sketch2video/internal/scene"
)

// PostDraw renders a layer's post-draw animation starting from last, the
// layer's final frame. zoom_in and zoom_out produce duration*fps camera
// frames; any other type, or a zero-length animation, passes last through.
func PostDraw(anim scene.Animation, last *image.RGBA, fps int) []*image.RGBA {
	passthrough := []*image.RGBA{last}

	switch strings.ToLower(anim.Type) {
	case "zoom_in", "zoom_out":
	default:
		return passthrough
	}

	count := config.FrameCount(anim.Seconds(), fps)
	if count == 0 {
		return passthrough
	}

	start, end := anim.Zooms()
	focus := anim.Focus()
	frames := make([]*image.RGBA, 0, count)
	for _, cam := range renderer.ZoomPath(start, end, focus.X, focus.Y, count) {
		frames = append(frames, renderer.Transform(last, cam))
	}
	return frames
}
