package drawing

// Pending is the ordered set of tiles that still hold undrawn ink.
type Pending struct {
	coords []Coord
}

// NewPending takes ownership of coords.
func NewPending(coords []Coord) *Pending {
	return &Pending{coords: coords}
}

func (p *Pending) Len() int { return len(p.coords) }

func (p *Pending) At(i int) Coord { return p.coords[i] }

// Remove deletes the element at i, keeping the order of the rest.
func (p *Pending) Remove(i int) Coord {
	c := p.coords[i]
	p.coords = append(p.coords[:i], p.coords[i+1:]...)
	return c
}

// Nearest returns the index of the pending tile closest to from in grid
// units. Equal distances resolve to the lowest index.
func (p *Pending) Nearest(from Coord) int {
	best, bestDist := -1, 0
	for i, c := range p.coords {
		dr, dc := c.Row-from.Row, c.Col-from.Col
		d := dr*dr + dc*dc
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
