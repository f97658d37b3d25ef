// Package timeline composes layered slides into a frame sequence: layers are
// fitted to the canvas and revealed over the slide background, then entrance
// animations, camera views and post-draw zooms are applied, each slide is
// padded to its duration and consecutive slides are cross-faded.
package timeline

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sort"

	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/effects"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/renderer"
	"github.com/ivlev/sketch2video/internal/scene"
)

// FrameSink receives frames in order and must not keep them past the call.
type FrameSink interface {
	WriteFrame(frame *image.RGBA) error
}

// Stats summarises a rendered timeline.
type Stats struct {
	Slides        int
	Frames        int
	Transitions   int
	SkippedLayers int
}

// Timeline renders slide configurations for one canvas. Frames it produces
// are never modified after creation, so sequences may share them.
type Timeline struct {
	Width  int
	Height int
	FPS    int
	// Tools supplies the hand and eraser shown during reveals; nil hides them.
	Tools  *hand.Tools
	Loader *Loader
	// Background fills each slide before its first layer.
	Background color.RGBA
	// Logf receives per-slide and per-layer progress; nil silences it.
	Logf func(format string, args ...any)

	skipped int
}

func New(width, height, fps int, tools *hand.Tools) *Timeline {
	return &Timeline{
		Width:      width,
		Height:     height,
		FPS:        fps,
		Tools:      tools,
		Loader:     NewLoader(),
		Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}

func (t *Timeline) logf(format string, args ...any) {
	if t.Logf != nil {
		t.Logf(format, args...)
	}
}

// Render builds every slide and writes it, with transitions, to sink. Only
// the previous and the current slide are held in memory.
func (t *Timeline) Render(cfg *scene.Config, sink FrameSink) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if t.FPS <= 0 || t.Width <= 0 || t.Height <= 0 {
		return Stats{}, fmt.Errorf("invalid canvas %dx%d at %d fps", t.Width, t.Height, t.FPS)
	}

	st := Stats{Slides: len(cfg.Slides)}
	t.skipped = 0
	t.Background = cfg.BackgroundColor()

	write := func(frames []*image.RGBA) error {
		for _, f := range frames {
			if err := sink.WriteFrame(f); err != nil {
				return fmt.Errorf("write frame %d: %w", st.Frames, err)
			}
			st.Frames++
		}
		return nil
	}

	var prev []*image.RGBA
	for i, slide := range cfg.Slides {
		cur := t.BuildSlide(i, slide)
		if i > 0 {
			if err := write(prev); err != nil {
				return st, err
			}
			if tr, ok := cfg.TransitionAfter(i - 1); ok {
				frames := t.Transition(tr, prev, cur)
				if len(frames) > 0 {
					st.Transitions++
				}
				if err := write(frames); err != nil {
					return st, err
				}
			}
		}
		prev = cur
	}
	if err := write(prev); err != nil {
		return st, err
	}

	st.SkippedLayers = t.skipped
	return st, nil
}

// BuildSlide renders one slide. Layers that cannot be loaded are logged and
// skipped. A slide whose layers all fail has no frames.
func (t *Timeline) BuildSlide(index int, slide scene.Slide) []*image.RGBA {
	t.logf("[*] Слайд %d: %d слоёв", index, len(slide.Layers))

	layers := make([]scene.Layer, len(slide.Layers))
	copy(layers, slide.Layers)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].ZIndex < layers[j].ZIndex
	})

	base := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	raster.Fill(base, t.Background)
	var frames []*image.RGBA

	for li, layer := range layers {
		img, err := t.Loader.Prepare(layer, t.Width, t.Height)
		if err != nil {
			log.Printf("[!] Слайд %d, слой %d пропущен: %v", index, li, err)
			t.skipped++
			continue
		}
		t.logf("[>]   слой %d (z=%d, %s)", li, layer.ZIndex, layer.DrawMode())

		own := t.layerFrames(layer, base, img)
		last := own[len(own)-1]

		if layer.Entrance != nil {
			count := config.FrameCount(layer.Entrance.Seconds(), t.FPS)
			own = effects.Frames(effects.Entrance(layer.Entrance.Type), base, last, count)
		}
		base = last
		frames = append(frames, own...)

		// The camera reframes everything the slide has shown so far; the
		// base handed to the next layer stays unframed.
		if layer.Camera != nil {
			zoom, focus := layer.Camera.View()
			cam := renderer.CameraState{Zoom: zoom, FocusX: focus.X, FocusY: focus.Y}
			for k := range frames {
				frames[k] = renderer.Transform(frames[k], cam)
			}
		}

		if layer.Animation != nil {
			post := effects.PostDraw(*layer.Animation, base, t.FPS)
			frames = append(frames, post...)
			base = post[len(post)-1]
		}
	}

	if len(frames) == 0 {
		return nil
	}

	hold := config.FrameCount(slide.Seconds(), t.FPS) - len(frames)
	last := frames[len(frames)-1]
	for range hold {
		frames = append(frames, last)
	}
	return frames
}

// Transition cross-fades from the last frame of prev to the first frame of
// next with weights (i+1)/n. Every transition type renders as a fade. Empty
// neighbours produce no transition.
func (t *Timeline) Transition(tr scene.Transition, prev, next []*image.RGBA) []*image.RGBA {
	if len(prev) == 0 || len(next) == 0 {
		return nil
	}
	from, to := prev[len(prev)-1], next[0]

	weights := renderer.Ramp(config.FrameCount(tr.Seconds(), t.FPS))
	t.logf("[>] Переход после слайда %d: %s, %d кадров", tr.AfterSlide, tr.Kind(), len(weights))
	frames := make([]*image.RGBA, 0, len(weights))
	for _, a := range weights {
		frames = append(frames, raster.AddWeighted(from, 1-a, to, a))
	}
	return frames
}
