package hand

import (
	"image"
)

// Paint draws the tool onto dst with its top-left corner at (x, y). The
// destination region is multiplied by the inverted mask and the sprite is
// added on top, saturating at 255. Parts of the sprite falling outside dst
// are clipped. dst must be a disposable frame; it is modified in place and
// returned for convenience.
func (a *Asset) Paint(dst *image.RGBA, x, y int) *image.RGBA {
	area := a.Footprint(dst.Rect, x, y)
	if area.Empty() {
		return dst
	}

	for py := area.Min.Y; py < area.Max.Y; py++ {
		sy := py - y
		for px := area.Min.X; px < area.Max.X; px++ {
			sx := px - x
			inv := a.Inv[sy*a.Width+sx]
			s := a.Sprite.Pix[sy*a.Sprite.Stride+sx*4:]
			d := dst.Pix[dst.PixOffset(px, py):]
			d[0] = addSat(float32(d[0])*inv, s[0])
			d[1] = addSat(float32(d[1])*inv, s[1])
			d[2] = addSat(float32(d[2])*inv, s[2])
		}
	}
	return dst
}

// Footprint is the frame area Paint would touch for a given anchor.
func (a *Asset) Footprint(bounds image.Rectangle, x, y int) image.Rectangle {
	return image.Rect(x, y, x+a.Width, y+a.Height).Intersect(bounds)
}

func addSat(base float32, v uint8) uint8 {
	sum := int(base) + int(v)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
