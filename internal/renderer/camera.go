package renderer

import (
	"image"

	"golang.org/x/image/draw"
)

// CropRect is the source window a camera state selects on a w x h frame.
// The window keeps its size when it would overflow and is shifted back
// inside the frame instead.
func CropRect(w, h int, c CameraState) image.Rectangle {
	cw := int(float64(w) / c.Zoom)
	ch := int(float64(h) / c.Zoom)
	fx := int(float64(w) * c.FocusX)
	fy := int(float64(h) * c.FocusY)

	x1 := max(0, fx-cw/2)
	y1 := max(0, fy-ch/2)
	x2 := min(w, x1+cw)
	y2 := min(h, y1+ch)

	if x2-x1 < cw {
		x1 = max(0, x2-cw)
	}
	if y2-y1 < ch {
		y1 = max(0, y2-ch)
	}
	return image.Rect(x1, y1, x2, y2)
}

// Transform crops img to the camera window and scales it back to full size.
// The identity camera and degenerate windows return img itself.
func Transform(img *image.RGBA, c CameraState) *image.RGBA {
	if c.IsIdentity() || c.Zoom <= 0 {
		return img
	}
	b := img.Bounds()
	crop := CropRect(b.Dx(), b.Dy(), c).Add(b.Min)
	if crop.Empty() {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, crop, draw.Src, nil)
	return out
}
