package timeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/scene"
	"github.com/ivlev/sketch2video/internal/source"
)

const (
	testW   = 8
	testH   = 6
	testFPS = 10
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

type memorySink struct {
	frames []*image.RGBA
}

func (m *memorySink) WriteFrame(frame *image.RGBA) error {
	m.frames = append(m.frames, raster.Clone(frame))
	return nil
}

// writeImage saves a testW x testH PNG filled with fill, with the top-left
// quadrant painted quad when quad is non-nil.
func writeImage(t *testing.T, dir, name string, fill color.NRGBA, quad *color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, testW, testH))
	for y := 0; y < testH; y++ {
		for x := 0; x < testW; x++ {
			c := fill
			if quad != nil && x < testW/2 && y < testH/2 {
				c = *quad
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestTimeline() *Timeline {
	tl := New(testW, testH, testFPS, nil)
	tl.Background = color.RGBA{A: 255}
	return tl
}

func TestPrepareOpacity(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "red.png", red, &blue)
	loader := NewLoader()

	base := image.NewRGBA(image.Rect(0, 0, testW, testH))
	for i := range base.Pix {
		base.Pix[i] = uint8(i * 7)
	}
	for i := 3; i < len(base.Pix); i += 4 {
		base.Pix[i] = 255
	}

	hidden, err := loader.Prepare(scene.Layer{ImagePath: path, Opacity: scene.Float(0)}, testW, testH)
	if err != nil {
		t.Fatal(err)
	}
	if got := raster.Overlay(base, hidden); !bytes.Equal(got.Pix, base.Pix) {
		t.Error("opacity 0 layer changed the base")
	}

	full, err := loader.Prepare(scene.Layer{ImagePath: path}, testW, testH)
	if err != nil {
		t.Fatal(err)
	}
	src, _ := source.DecodeFile(path)
	want := raster.ToRGBA(imaging.Resize(src, testW, testH, imaging.Linear))
	if !bytes.Equal(raster.Overlay(base, full).Pix, raster.Overlay(base, want).Pix) {
		t.Error("opacity 1 layer differs from overlay of the resized source")
	}

	half, _ := loader.Prepare(scene.Layer{ImagePath: path, Opacity: scene.Float(0.5)}, testW, testH)
	if c := half.RGBAAt(7, 5); c.R != 127 {
		t.Errorf("half opacity red = %d, want 127", c.R)
	}
}

func TestPrepareScaleAndOffset(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "q.png", black, &red)
	loader := NewLoader()

	moved, err := loader.Prepare(scene.Layer{ImagePath: path, Position: scene.Offset{X: 4, Y: 3}}, testW, testH)
	if err != nil {
		t.Fatal(err)
	}
	if c := moved.RGBAAt(5, 4); c.R != 255 {
		t.Errorf("quadrant not moved: %v", c)
	}
	if c := moved.RGBAAt(1, 1); c.R != 0 {
		t.Errorf("vacated area not black: %v", c)
	}

	scaled, err := loader.Prepare(scene.Layer{ImagePath: path, Scale: 0.5}, 16, 12)
	if err != nil {
		t.Fatal(err)
	}
	if scaled.Bounds().Dx() != 16 || scaled.Bounds().Dy() != 12 {
		t.Errorf("scaled layer not fitted to canvas: %v", scaled.Bounds())
	}
}

func TestTranslateClips(t *testing.T) {
	img := raster.Black(4, 4)
	img.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})

	out := Translate(img, 2, 1)
	if out.RGBAAt(2, 1).R != 255 || out.RGBAAt(0, 0).R != 0 {
		t.Error("translate did not move the marker")
	}
	if img.RGBAAt(0, 0).R != 255 {
		t.Error("input modified")
	}

	gone := Translate(img, -5, 0)
	for i := 0; i < len(gone.Pix); i += 4 {
		if gone.Pix[i] != 0 {
			t.Fatal("fully shifted layer should be black")
		}
	}
}

func TestLoaderErrors(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(""); !errors.Is(err, errNoImagePath) {
		t.Errorf("expected errNoImagePath, got %v", err)
	}
	if _, err := loader.Prepare(scene.Layer{ImagePath: filepath.Join(t.TempDir(), "nope.png")}, 4, 4); err == nil {
		t.Error("expected error for missing layer image")
	}
}

func TestBuildSlideFrameCounts(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, "red.png", red, nil)
	missing := filepath.Join(dir, "missing.png")

	tests := []struct {
		name  string
		slide scene.Slide
		want  int
	}{
		{"static no hold", scene.Slide{Duration: scene.Float(0), Layers: []scene.Layer{{ImagePath: img, Mode: "static"}}}, 1},
		{"draw reveal", scene.Slide{Duration: scene.Float(0), Layers: []scene.Layer{{ImagePath: img}}}, RevealFrames(testFPS)},
		{"static held", scene.Slide{Duration: scene.Float(3), Layers: []scene.Layer{{ImagePath: img, Mode: "static"}}}, 30},
		{"default duration", scene.Slide{Layers: []scene.Layer{{ImagePath: img, Mode: "static"}}}, 50},
		{"entrance", scene.Slide{Duration: scene.Float(0), Layers: []scene.Layer{
			{ImagePath: img, Mode: "static", Entrance: &scene.Entrance{Type: "fade_in"}},
		}}, 5},
		{"post zoom", scene.Slide{Duration: scene.Float(0), Layers: []scene.Layer{
			{ImagePath: img, Mode: "static", Animation: &scene.Animation{Type: "zoom_in"}},
		}}, 11},
		{"missing layer skipped", scene.Slide{Duration: scene.Float(0), Layers: []scene.Layer{
			{ImagePath: missing}, {ImagePath: img, Mode: "static"},
		}}, 1},
		{"all layers missing", scene.Slide{Layers: []scene.Layer{{ImagePath: missing}}}, 0},
		{"no layers", scene.Slide{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTestTimeline()
			frames := tl.BuildSlide(0, tt.slide)
			if len(frames) != tt.want {
				t.Errorf("got %d frames, want %d", len(frames), tt.want)
			}
		})
	}
}

func TestBuildSlideZOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.png", blue, nil)
	b := writeImage(t, dir, "b.png", red, nil)

	tl := newTestTimeline()
	frames := tl.BuildSlide(0, scene.Slide{
		Duration: scene.Float(0),
		Layers: []scene.Layer{
			{ImagePath: a, Mode: "static", ZIndex: 1},
			{ImagePath: b, Mode: "static", ZIndex: 0, Entrance: &scene.Entrance{Type: "fade_in", Duration: scene.Float(0.3)}},
		},
	})
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 3 entrance + 1 static", len(frames))
	}
	if c := frames[0].RGBAAt(0, 0); c.R != 85 || c.B != 0 {
		t.Errorf("first frame should fade in the lower layer, got %v", c)
	}
	if c := frames[3].RGBAAt(0, 0); c.R != 255 || c.B != 255 {
		t.Errorf("last frame should hold both layers, got %v", c)
	}
}

func TestCameraReframesEarlierLayers(t *testing.T) {
	dir := t.TempDir()
	quad := writeImage(t, dir, "quad.png", black, &red)
	empty := writeImage(t, dir, "empty.png", black, nil)

	tl := newTestTimeline()
	frames := tl.BuildSlide(0, scene.Slide{
		Duration: scene.Float(0),
		Layers: []scene.Layer{
			{ImagePath: quad, Mode: "static"},
			{ImagePath: empty, Mode: "static", ZIndex: 1, Camera: &scene.Camera{Zoom: 2, Position: &scene.Focus{X: 0, Y: 0}}},
			{ImagePath: empty, Mode: "static", ZIndex: 2},
		},
	})
	if len(frames) != 3 {
		t.Fatalf("got %d frames", len(frames))
	}
	// Both frames shown before the camera layer finished are zoomed into
	// the red quadrant.
	for i := 0; i < 2; i++ {
		if c := frames[i].RGBAAt(7, 5); c.R < 200 {
			t.Errorf("frame %d not reframed by the camera: %v", i, c)
		}
	}
	// The following layer starts from the unframed composite.
	if c := frames[2].RGBAAt(7, 5); c.R != 0 {
		t.Errorf("next layer inherited the camera: %v", c)
	}
	if c := frames[2].RGBAAt(0, 0); c.R != 255 {
		t.Errorf("next layer lost the red quadrant: %v", c)
	}
}

func TestReveal(t *testing.T) {
	base := raster.Black(20, 10)
	img := raster.White(20, 10)

	sprite := image.NewRGBA(image.Rect(0, 0, 2, 2))
	mask := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	tool, err := hand.FromImages(sprite, mask) // black square
	if err != nil {
		t.Fatal(err)
	}

	frames := Reveal(base, img, 10, tool)
	if len(frames) != 10 {
		t.Fatalf("got %d frames", len(frames))
	}
	if c := frames[0].RGBAAt(0, 0); c.R != 31 {
		t.Errorf("first reveal weight: %v, want 0.12*255", c)
	}
	if c := frames[8].RGBAAt(0, 0); c.R != 255 {
		t.Errorf("reveal should saturate before the end: %v", c)
	}
	// Tool sits at x = progress*w on the centre row.
	if c := frames[4].RGBAAt(10, 5); c.R != 0 {
		t.Errorf("tool missing from frame 4: %v", c)
	}
	last := frames[9]
	for i := 0; i < len(last.Pix); i++ {
		if last.Pix[i] != 255 {
			t.Fatal("tool left on the final reveal frame")
		}
	}

	if RevealFrames(3) != 10 || RevealFrames(30) != 60 {
		t.Errorf("RevealFrames = %d, %d", RevealFrames(3), RevealFrames(30))
	}
}

func TestRenderTransition(t *testing.T) {
	dir := t.TempDir()
	r := writeImage(t, dir, "red.png", red, nil)
	b := writeImage(t, dir, "blue.png", blue, nil)

	slides := []scene.Slide{
		{Duration: scene.Float(0), Layers: []scene.Layer{{ImagePath: r, Mode: "static"}}},
		{Duration: scene.Float(0), Layers: []scene.Layer{{ImagePath: b, Mode: "static"}}},
	}

	tests := []struct {
		name     string
		duration float64
		want     int
	}{
		{"single frame", 1.0 / testFPS, 3},
		{"three frames", 0.3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &scene.Config{
				Background:  scene.BackgroundBlack,
				Slides:      slides,
				Transitions: []scene.Transition{{AfterSlide: 0, Duration: scene.Float(tt.duration)}},
			}
			sink := &memorySink{}
			var logged []string
			tl := New(testW, testH, testFPS, nil)
			tl.Logf = func(format string, args ...any) {
				logged = append(logged, fmt.Sprintf(format, args...))
			}
			st, err := tl.Render(cfg, sink)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !slices.ContainsFunc(logged, func(l string) bool { return strings.Contains(l, ": fade,") }) {
				t.Errorf("transition kind not logged: %q", logged)
			}
			if st.Frames != tt.want || len(sink.frames) != tt.want || st.Transitions != 1 {
				t.Fatalf("stats %+v, sink %d frames, want %d", st, len(sink.frames), tt.want)
			}

			n := len(sink.frames)
			// The last transition frame is the next slide's first frame.
			if !bytes.Equal(sink.frames[n-2].Pix, sink.frames[n-1].Pix) {
				t.Error("transition does not end on the next slide")
			}
			if c := sink.frames[0].RGBAAt(0, 0); c.R != 255 || c.B != 0 {
				t.Errorf("first frame %v, want red", c)
			}
			if n == 5 {
				c := sink.frames[2].RGBAAt(0, 0)
				t.Logf("mid transition pixel: %v", c)
				if c.R != 85 || c.B != 170 {
					t.Errorf("mid transition %v, want 1/3 red 2/3 blue", c)
				}
			}
		})
	}
}

func TestRenderSkipsEmptySlides(t *testing.T) {
	dir := t.TempDir()
	r := writeImage(t, dir, "red.png", red, nil)

	cfg := &scene.Config{
		Slides: []scene.Slide{
			{Layers: []scene.Layer{{ImagePath: filepath.Join(dir, "gone.png")}}},
			{Duration: scene.Float(0), Layers: []scene.Layer{{ImagePath: r, Mode: "static"}}},
		},
		Transitions: []scene.Transition{{AfterSlide: 0}},
	}
	sink := &memorySink{}
	st, err := New(testW, testH, testFPS, nil).Render(cfg, sink)
	if err != nil {
		t.Fatal(err)
	}
	if st.Frames != 1 || st.Transitions != 0 || st.SkippedLayers != 1 {
		t.Errorf("stats %+v", st)
	}

	if _, err := New(testW, testH, testFPS, nil).Render(&scene.Config{}, sink); !errors.Is(err, scene.ErrNoSlides) {
		t.Errorf("expected ErrNoSlides, got %v", err)
	}
}
