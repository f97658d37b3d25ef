package drawing

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/sketch2video/internal/analyzer"
	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/raster"
)

type memorySink struct {
	frames []*image.RGBA
	failAt int
}

func (m *memorySink) WriteFrame(frame *image.RGBA) error {
	if m.failAt > 0 && len(m.frames)+1 == m.failAt {
		return errors.New("disk full")
	}
	m.frames = append(m.frames, raster.Clone(frame))
	return nil
}

// testHand is a single red pixel.
func testHand(t *testing.T) *hand.Asset {
	t.Helper()
	sprite := image.NewRGBA(image.Rect(0, 0, 1, 1))
	sprite.Set(0, 0, color.RGBA{255, 0, 0, 255})
	mask := image.NewGray(image.Rect(0, 0, 1, 1))
	mask.SetGray(0, 0, color.Gray{Y: 255})
	a, err := hand.FromImages(sprite, mask)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// blackSource has every pixel black in colour and ink.
func blackSource(w, h int) *analyzer.Prepared {
	return &analyzer.Prepared{
		Color: raster.Black(w, h),
		Gray:  image.NewGray(image.Rect(0, 0, w, h)),
		Ink:   image.NewGray(image.Rect(0, 0, w, h)),
	}
}

// dottedSource puts a single ink pixel at each point on a white page.
func dottedSource(w, h int, dots ...image.Point) *analyzer.Prepared {
	p := &analyzer.Prepared{
		Color: raster.White(w, h),
		Gray:  image.NewGray(image.Rect(0, 0, w, h)),
		Ink:   image.NewGray(image.Rect(0, 0, w, h)),
	}
	for i := range p.Ink.Pix {
		p.Ink.Pix[i] = 255
	}
	for _, d := range dots {
		p.Ink.SetGray(d.X, d.Y, color.Gray{Y: 0})
		p.Color.SetRGBA(d.X, d.Y, color.RGBA{0, 0, 0, 255})
	}
	return p
}

func testCanvas(w, h, split, skip int) config.Canvas {
	return config.Canvas{FPS: 30, Width: w, Height: h, SplitLen: split, SkipRate: skip, BgSkipRate: skip, HoldSeconds: 1}
}

func TestGridPartition(t *testing.T) {
	cases := []struct{ w, h, s int }{
		{4, 4, 2}, {5, 3, 2}, {1, 1, 1}, {17, 9, 4}, {30, 31, 15}, {7, 7, 10},
	}
	for _, c := range cases {
		g, err := NewGrid(c.w, c.h, c.s)
		if err != nil {
			t.Fatal(err)
		}
		if g.Rows != ceilDiv(c.h, c.s) || g.Cols != ceilDiv(c.w, c.s) {
			t.Errorf("%dx%d/%d: grid %dx%d", c.w, c.h, c.s, g.Rows, g.Cols)
		}
		covered := make([]int, c.w*c.h)
		for _, tile := range g.Tiles() {
			if tile.Rect.Empty() {
				t.Errorf("%dx%d/%d: empty tile %v", c.w, c.h, c.s, tile.Coord)
			}
			for y := tile.Rect.Min.Y; y < tile.Rect.Max.Y; y++ {
				for x := tile.Rect.Min.X; x < tile.Rect.Max.X; x++ {
					covered[y*c.w+x]++
				}
			}
		}
		for i, n := range covered {
			if n != 1 {
				t.Fatalf("%dx%d/%d: pixel %d covered %d times", c.w, c.h, c.s, i, n)
			}
		}
	}
}

func TestGridRejectsBadSize(t *testing.T) {
	if _, err := NewGrid(4, 4, 0); err == nil {
		t.Error("expected error for zero tile size")
	}
	if _, err := NewGrid(0, 4, 2); err == nil {
		t.Error("expected error for empty canvas")
	}
}

func TestNearestTieBreak(t *testing.T) {
	p := NewPending([]Coord{{0, 2}, {1, 1}, {2, 2}, {1, 3}})
	// (0,2), (2,2) and (1,3) are all distance 1 from (1,2); (1,1) is also 1.
	if got := p.Nearest(Coord{1, 2}); got != 0 {
		t.Errorf("Nearest = %d, want first minimal index 0", got)
	}
	if got := p.Nearest(Coord{2, 3}); got != 2 {
		t.Errorf("Nearest = %d, want 2", got)
	}
	p.Remove(0)
	if p.At(0) != (Coord{1, 1}) || p.Len() != 3 {
		t.Errorf("Remove did not keep order: %v", p.coords)
	}
}

func TestDrawAllBlack4x4(t *testing.T) {
	sink := &memorySink{}
	e := NewEngine(testCanvas(4, 4, 2, 1), testHand(t), sink)
	st := NewState(4, 4)

	pass, err := e.Draw(st, blackSource(4, 4), nil, 1)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if pass.Candidates != 4 || pass.Frames != 4 || len(sink.frames) != 4 {
		t.Fatalf("candidates=%d frames=%d written=%d, want 4/4/4", pass.Candidates, pass.Frames, len(sink.frames))
	}

	// Visit order from (0,0): right, down, left.
	wantHand := []image.Point{{1, 1}, {3, 1}, {3, 3}, {1, 3}}
	for i, f := range sink.frames {
		if c := f.RGBAAt(wantHand[i].X, wantHand[i].Y); c.R != 255 || c.G != 0 {
			t.Errorf("frame %d: hand not at %v, got %v", i, wantHand[i], c)
		}
	}

	// After the second paint the top half is black, the bottom still white.
	f := sink.frames[1]
	if c := f.RGBAAt(0, 0); c.R != 0 {
		t.Errorf("painted tile not black: %v", c)
	}
	if c := f.RGBAAt(0, 3); c.R != 255 || c.G != 255 {
		t.Errorf("unpainted tile not white: %v", c)
	}

	for i, v := range st.Canvas.Pix {
		if i%4 != 3 && v != 0 {
			t.Fatalf("final canvas not black at byte %d", i)
		}
	}
}

func TestDrawFrameCount(t *testing.T) {
	dots := []image.Point{}
	for y := 0; y < 20; y += 4 {
		for x := 0; x < 24; x += 4 {
			dots = append(dots, image.Pt(x, y))
		}
	}
	src := dottedSource(24, 20, dots...)

	for _, skip := range []int{1, 2, 3, 7, 30, 100} {
		sink := &memorySink{}
		e := NewEngine(testCanvas(24, 20, 4, skip), testHand(t), sink)
		pass, err := e.Draw(NewState(24, 20), src, nil, skip)
		if err != nil {
			t.Fatal(err)
		}
		n := len(dots)
		want := (n + skip - 1) / skip
		if pass.Candidates != n || pass.Frames != want {
			t.Errorf("skip %d: candidates=%d frames=%d, want %d/%d", skip, pass.Candidates, pass.Frames, n, want)
		}
	}
}

func TestDrawEmptyInk(t *testing.T) {
	sink := &memorySink{}
	e := NewEngine(testCanvas(8, 8, 4, 1), testHand(t), sink)
	st := NewState(8, 8)
	pass, err := e.Draw(st, dottedSource(8, 8), nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pass.Frames != 0 || len(sink.frames) != 0 {
		t.Errorf("no ink should produce no frames, got %d", pass.Frames)
	}
}

func TestDrawDeterministic(t *testing.T) {
	src := dottedSource(30, 30, image.Pt(1, 1), image.Pt(28, 2), image.Pt(15, 15), image.Pt(3, 27), image.Pt(20, 25))
	run := func() []Event {
		cv := testCanvas(30, 30, 5, 1)
		cv.ExportJSON = true
		e := NewEngine(cv, testHand(t), &memorySink{})
		st := NewState(30, 30)
		if _, err := e.Draw(st, src, nil, 1); err != nil {
			t.Fatal(err)
		}
		return st.Events
	}
	a, b := run(), run()
	if len(a) != len(b) || len(a) != 5 {
		t.Fatalf("event counts %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("event %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	if a[0].Tile.GridPosition != [2]int{0, 0} {
		t.Errorf("first tile %v, want row-major first", a[0].Tile.GridPosition)
	}
}

func TestDrawObjectMask(t *testing.T) {
	src := dottedSource(8, 4, image.Pt(1, 1), image.Pt(6, 1))
	mask := image.NewGray(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	st := NewState(8, 4)
	e := NewEngine(testCanvas(8, 4, 4, 1), testHand(t), &memorySink{})
	pass, err := e.Draw(st, src, mask, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pass.Candidates != 1 {
		t.Errorf("masked candidates = %d, want 1", pass.Candidates)
	}
	if c := st.Canvas.RGBAAt(6, 1); c.R != 255 {
		t.Errorf("ink outside the mask was drawn: %v", c)
	}

	bad := image.NewGray(image.Rect(0, 0, 4, 4))
	if _, err := e.Draw(NewState(8, 4), src, bad, 1); err == nil {
		t.Error("expected error for mismatched mask")
	}
}

func TestDrawSinkError(t *testing.T) {
	sink := &memorySink{failAt: 2}
	e := NewEngine(testCanvas(4, 4, 2, 1), testHand(t), sink)
	if _, err := e.Draw(NewState(4, 4), blackSource(4, 4), nil, 1); err == nil {
		t.Fatal("expected sink error to propagate")
	}
	if len(sink.frames) != 1 {
		t.Errorf("frames written before failure = %d, want 1", len(sink.frames))
	}
}

func TestExportJSON(t *testing.T) {
	cv := testCanvas(12, 12, 3, 2)
	cv.ExportJSON = true
	h := testHand(t)
	e := NewEngine(cv, h, &memorySink{})
	st := NewState(12, 12)

	src := dottedSource(12, 12, image.Pt(0, 0), image.Pt(4, 0), image.Pt(7, 0), image.Pt(10, 0), image.Pt(10, 4))
	pass, err := e.Draw(st, src, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Events) != pass.Frames || pass.Frames != 3 {
		t.Fatalf("events=%d frames=%d, want 3", len(st.Events), pass.Frames)
	}

	for i, ev := range st.Events {
		if ev.FrameNumber != i {
			t.Errorf("event %d has frame_number %d", i, ev.FrameNumber)
		}
		if i > 0 && ev.TilesRemaining >= st.Events[i-1].TilesRemaining {
			t.Errorf("tiles_remaining not decreasing at %d", i)
		}
	}
	last := st.Events[len(st.Events)-1]
	if last.TilesRemaining != 0 {
		t.Errorf("last tiles_remaining = %d", last.TilesRemaining)
	}
	// Last tile drawn is (1,3), hand at its centre.
	if last.Hand != (Position{X: 10, Y: 4}) || last.Tile.PixelCoords != (PixelCoords{9, 12, 3, 6}) {
		t.Errorf("last event %+v", last)
	}

	path := filepath.Join(t.TempDir(), "anim.json")
	if err := WriteJSON(e.NewExport(st, "abcd"), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	meta := doc["metadata"]
	if meta["frame_rate"].(float64) != 30 || meta["split_len"].(float64) != 3 || meta["total_frames"].(float64) != 3 {
		t.Errorf("metadata = %v", meta)
	}
	if frames := doc["animation"]["frames_written"].([]any); len(frames) != 3 {
		t.Errorf("frames_written has %d entries", len(frames))
	}
	t.Logf("export: %s", data[:80])
}
