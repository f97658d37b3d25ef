package drawing

import (
	"fmt"
	"image"

	"github.com/ivlev/sketch2video/internal/analyzer"
	"github.com/ivlev/sketch2video/internal/config"
	"github.com/ivlev/sketch2video/internal/hand"
	"github.com/ivlev/sketch2video/internal/raster"
	"github.com/ivlev/sketch2video/internal/system"
)

// progressEvery controls how often remaining tiles are reported.
const progressEvery = 40

// FrameSink receives emitted frames in order. Implementations must not keep
// a reference to the frame after WriteFrame returns.
type FrameSink interface {
	WriteFrame(frame *image.RGBA) error
}

// State is the mutable part of a run: the accumulating canvas and the event
// log. Only the engine and the orchestrator touch it.
type State struct {
	Canvas        *image.RGBA
	Events        []Event
	FramesWritten int
	TilesPainted  int
}

// NewState allocates an all-white canvas.
func NewState(width, height int) *State {
	return &State{Canvas: raster.White(width, height)}
}

// Pass summarises one traversal.
type Pass struct {
	Candidates int
	Frames     int
}

// Engine runs the greedy traversal for one canvas configuration.
type Engine struct {
	Canvas    config.Canvas
	Hand      *hand.Asset
	Sink      FrameSink
	Threshold uint8
	// Logf receives progress lines; nil silences them.
	Logf func(format string, args ...any)
}

// NewEngine wires an engine with the default black-pixel threshold.
func NewEngine(cv config.Canvas, h *hand.Asset, sink FrameSink) *Engine {
	return &Engine{
		Canvas:    cv,
		Hand:      h,
		Sink:      sink,
		Threshold: DefaultBlackThreshold,
	}
}

// Draw paints every ink tile of src onto st.Canvas, nearest tile first, and
// writes a hand-composited frame every skipRate paints plus one on the last
// paint. With a non-nil objectMask only ink where the mask is 255 is drawn
// and only that region gets the colour source restored afterwards.
func (e *Engine) Draw(st *State, src *analyzer.Prepared, objectMask *image.Gray, skipRate int) (Pass, error) {
	if skipRate <= 0 {
		return Pass{}, fmt.Errorf("skip rate must be positive, got %d", skipRate)
	}
	if st.Canvas.Rect != src.Color.Rect {
		return Pass{}, fmt.Errorf("canvas %v does not match source %v", st.Canvas.Rect, src.Color.Rect)
	}
	if objectMask != nil && objectMask.Rect != src.Color.Rect {
		return Pass{}, fmt.Errorf("object mask %v does not match source %v", objectMask.Rect, src.Color.Rect)
	}

	grid, err := NewGrid(src.Width(), src.Height(), e.Canvas.SplitLen)
	if err != nil {
		return Pass{}, err
	}

	ink := src.Ink
	if objectMask != nil {
		ink = applyMask(src.Ink, objectMask)
	}

	pending := NewPending(grid.Candidates(ink, e.Threshold))
	pass := Pass{Candidates: pending.Len()}

	selected := 0
	counter := 0
	for pending.Len() > 0 {
		if selected < 0 || selected >= pending.Len() {
			selected = 0
		}

		tile := grid.Tile(pending.At(selected))
		paintTile(st.Canvas, ink, tile.Rect)

		anchor := tile.Center()
		frame := system.GetImage(st.Canvas.Rect)
		raster.CopyInto(frame, st.Canvas)
		e.Hand.Paint(frame, anchor.X, anchor.Y)

		current := pending.Remove(selected)
		if pending.Len() > 0 {
			selected = pending.Nearest(current)
		}

		counter++
		st.TilesPainted++
		if counter%skipRate == 0 || pending.Len() == 0 {
			if err := e.Sink.WriteFrame(frame); err != nil {
				system.PutImage(frame)
				return pass, fmt.Errorf("write frame %d: %w", st.FramesWritten, err)
			}
			if e.Canvas.ExportJSON {
				st.Events = append(st.Events, newEvent(len(st.Events), tile, anchor, pending.Len()))
			}
			st.FramesWritten++
			pass.Frames++
		}
		system.PutImage(frame)

		if counter%progressEvery == 0 && pending.Len() > 0 && e.Logf != nil {
			e.Logf("[>] Осталось тайлов: %d", pending.Len())
		}
	}

	restoreColor(st.Canvas, src.Color, objectMask)
	return pass, nil
}

// paintTile copies the tile's ink pixels into all three colour channels.
func paintTile(canvas *image.RGBA, ink *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := ink.Pix[ink.PixOffset(x, y)]
			off := canvas.PixOffset(x, y)
			canvas.Pix[off+0] = v
			canvas.Pix[off+1] = v
			canvas.Pix[off+2] = v
			canvas.Pix[off+3] = 0xff
		}
	}
}

// applyMask whitens ink outside the object mask so it never becomes a
// candidate.
func applyMask(ink, mask *image.Gray) *image.Gray {
	out := image.NewGray(ink.Rect)
	copy(out.Pix, ink.Pix)
	for i, m := range mask.Pix {
		if m == 0 && i < len(out.Pix) {
			out.Pix[i] = 255
		}
	}
	return out
}

// restoreColor replaces the drawn region with the colour source to remove
// grid seams.
func restoreColor(canvas, color *image.RGBA, mask *image.Gray) {
	if mask == nil {
		copy(canvas.Pix, color.Pix)
		return
	}
	for i, m := range mask.Pix {
		if m != 255 {
			continue
		}
		off := i * 4
		copy(canvas.Pix[off:off+4], color.Pix[off:off+4])
	}
}
