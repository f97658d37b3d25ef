// Package drawing implements the tile-based greedy draw-order engine: the
// ink mask is cut into a grid, tiles holding ink are visited nearest-first,
// and every visit paints the tile and places the hand over it.
package drawing

import (
	"fmt"
	"image"
)

// DefaultBlackThreshold is the intensity below which an ink-mask pixel
// counts as ink when selecting candidate tiles.
const DefaultBlackThreshold = 10

// Coord addresses a tile by grid row and column.
type Coord struct {
	Row, Col int
}

// Tile is one grid cell. Edge tiles can be smaller than the nominal size.
type Tile struct {
	Coord
	Rect image.Rectangle
}

// Center is the tile's pixel-space centroid, rounded down.
func (t Tile) Center() image.Point {
	return image.Pt(t.Rect.Min.X+t.Rect.Dx()/2, t.Rect.Min.Y+t.Rect.Dy()/2)
}

// Grid partitions a canvas into ceil(H/S) x ceil(W/S) tiles of nominal size S.
type Grid struct {
	Rows, Cols int
	Size       int
	Bounds     image.Rectangle
}

// NewGrid builds the grid for a width x height canvas.
func NewGrid(width, height, size int) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", size)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	return &Grid{
		Rows:   ceilDiv(height, size),
		Cols:   ceilDiv(width, size),
		Size:   size,
		Bounds: image.Rect(0, 0, width, height),
	}, nil
}

// Tile returns the cell at c. Its rectangle is truncated at the canvas edge.
func (g *Grid) Tile(c Coord) Tile {
	r := image.Rect(c.Col*g.Size, c.Row*g.Size, (c.Col+1)*g.Size, (c.Row+1)*g.Size)
	return Tile{Coord: c, Rect: r.Intersect(g.Bounds)}
}

// Tiles lists every cell in row-major order.
func (g *Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			tiles = append(tiles, g.Tile(Coord{Row: r, Col: c}))
		}
	}
	return tiles
}

// View returns the part of mask covered by the tile without copying.
func (g *Grid) View(mask *image.Gray, c Coord) *image.Gray {
	return mask.SubImage(g.Tile(c).Rect).(*image.Gray)
}

// Candidates returns, in row-major order, every tile holding at least one
// mask pixel darker than threshold.
func (g *Grid) Candidates(mask *image.Gray, threshold uint8) []Coord {
	var out []Coord
	for _, t := range g.Tiles() {
		if hasInk(g.View(mask, t.Coord), threshold) {
			out = append(out, t.Coord)
		}
	}
	return out
}

func hasInk(view *image.Gray, threshold uint8) bool {
	w := view.Rect.Dx()
	for y := 0; y < view.Rect.Dy(); y++ {
		row := view.Pix[y*view.Stride : y*view.Stride+w]
		for _, v := range row {
			if v < threshold {
				return true
			}
		}
	}
	return false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
