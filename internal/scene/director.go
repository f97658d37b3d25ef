package scene

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ivlev/sketch2video/internal/analyzer"
)

// Director turns detected regions into a starter slide configuration: the
// image is drawn once, then the camera visits each region in reading order.
type Director struct {
	Width  int
	Height int
	// DrawDuration is the length of the opening draw slide.
	DrawDuration float64
	MinDwell     float64
	MaxDwell     float64
	MaxZoom      float64
	// RowTolerance is the vertical distance, in pixels, under which two
	// regions count as the same text row.
	RowTolerance int
}

// NewDirector creates a Director with default pacing.
func NewDirector(width, height int) *Director {
	return &Director{
		Width:        width,
		Height:       height,
		DrawDuration: DefaultSlideDuration,
		MinDwell:     1.0,
		MaxDwell:     3.0,
		MaxZoom:      3.0,
		RowTolerance: 20,
	}
}

// Generate builds a configuration for imagePath. blocks are in canvas pixel
// coordinates; totalDuration is spread over the region slides.
func (d *Director) Generate(blocks []analyzer.Block, imagePath string, totalDuration float64) (*Config, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no regions detected")
	}

	sorted := d.sortBlocks(blocks)
	dwell := d.dwellTime(totalDuration, len(sorted))

	cfg := &Config{
		Width:  d.Width,
		Height: d.Height,
		Slides: []Slide{{
			Duration: Float(d.DrawDuration),
			Layers:   []Layer{{ImagePath: imagePath, Mode: ModeDraw}},
		}},
	}

	for i, b := range sorted {
		fx, fy := b.Center(d.Width, d.Height)
		focus := Focus{X: round2(fx), Y: round2(fy)}
		cfg.Slides = append(cfg.Slides, Slide{
			Duration: Float(dwell),
			Layers: []Layer{{
				ImagePath: imagePath,
				Mode:      ModeStatic,
				Animation: &Animation{
					Type:          "zoom_in",
					Duration:      Float(math.Min(1.0, dwell/2)),
					StartZoom:     1.0,
					EndZoom:       round2(d.zoomFor(b.Rect)),
					FocusPosition: &focus,
				},
			}},
		})
		cfg.Transitions = append(cfg.Transitions, Transition{
			AfterSlide: i,
			Type:       DefaultTransitionType,
			Duration:   Float(DefaultTransitionDuration),
		})
	}

	return cfg, nil
}

// sortBlocks orders regions top-to-bottom, then left-to-right within a row.
func (d *Director) sortBlocks(blocks []analyzer.Block) []analyzer.Block {
	sorted := make([]analyzer.Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[i].Rect.Min.Y - sorted[j].Rect.Min.Y
		if abs(yDiff) > d.RowTolerance {
			return sorted[i].Rect.Min.Y < sorted[j].Rect.Min.Y
		}
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})

	return sorted
}

// dwellTime splits the duration evenly and clamps it to [MinDwell, MaxDwell].
func (d *Director) dwellTime(totalDuration float64, count int) float64 {
	dwell := totalDuration / float64(count)
	if dwell < d.MinDwell {
		dwell = d.MinDwell
	}
	if dwell > d.MaxDwell {
		dwell = d.MaxDwell
	}
	return dwell
}

// zoomFor fits the region into 90% of the viewport, within [1, MaxZoom].
func (d *Director) zoomFor(r image.Rectangle) float64 {
	const padding = 0.9

	bw, bh := float64(r.Dx()), float64(r.Dy())
	if bw == 0 || bh == 0 {
		return 1.0
	}

	zoom := math.Min(float64(d.Width)*padding/bw, float64(d.Height)*padding/bh)
	return math.Max(1.0, math.Min(zoom, d.MaxZoom))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
