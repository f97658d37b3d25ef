package drawing

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
)

// Event records one emitted frame of the traversal.
type Event struct {
	FrameNumber    int       `json:"frame_number"`
	Tile           TileEvent `json:"tile_drawn"`
	Hand           Position  `json:"hand_position"`
	TilesRemaining int       `json:"tiles_remaining"`
}

type TileEvent struct {
	GridPosition [2]int      `json:"grid_position"`
	PixelCoords  PixelCoords `json:"pixel_coords"`
}

type PixelCoords struct {
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
	YStart int `json:"y_start"`
	YEnd   int `json:"y_end"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func newEvent(frame int, t Tile, hand image.Point, remaining int) Event {
	return Event{
		FrameNumber: frame,
		Tile: TileEvent{
			GridPosition: [2]int{t.Row, t.Col},
			PixelCoords: PixelCoords{
				XStart: t.Rect.Min.X,
				XEnd:   t.Rect.Max.X,
				YStart: t.Rect.Min.Y,
				YEnd:   t.Rect.Max.Y,
			},
		},
		Hand:           Position{X: hand.X, Y: hand.Y},
		TilesRemaining: remaining,
	}
}

// Export is the on-disk animation log.
type Export struct {
	Metadata  Metadata  `json:"metadata"`
	Animation Animation `json:"animation"`
}

type Metadata struct {
	FrameRate      int        `json:"frame_rate"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	SplitLen       int        `json:"split_len"`
	ObjectSkipRate int        `json:"object_skip_rate"`
	TotalFrames    int        `json:"total_frames"`
	HandDimensions Dimensions `json:"hand_dimensions"`
	SourceHash     string     `json:"source_hash,omitempty"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Animation struct {
	FramesWritten []Event `json:"frames_written"`
}

// NewExport assembles the export document for a finished run.
func (e *Engine) NewExport(st *State, sourceHash string) *Export {
	events := st.Events
	if events == nil {
		events = []Event{}
	}
	return &Export{
		Metadata: Metadata{
			FrameRate:      e.Canvas.FPS,
			Width:          e.Canvas.Width,
			Height:         e.Canvas.Height,
			SplitLen:       e.Canvas.SplitLen,
			ObjectSkipRate: e.Canvas.SkipRate,
			TotalFrames:    len(events),
			HandDimensions: Dimensions{Width: e.Hand.Width, Height: e.Hand.Height},
			SourceHash:     sourceHash,
		},
		Animation: Animation{FramesWritten: events},
	}
}

// WriteJSON saves the export with two-space indentation.
func WriteJSON(x *Export, path string) error {
	data, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal animation: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
