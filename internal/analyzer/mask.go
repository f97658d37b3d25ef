package analyzer

import "image"

// ObjectMask rasterises blocks into a width x height mask: 255 inside any
// block, 0 elsewhere.
func ObjectMask(blocks []Block, width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, b := range blocks {
		r := b.Rect.Intersect(mask.Rect)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := mask.Pix[y*mask.Stride:]
			for x := r.Min.X; x < r.Max.X; x++ {
				row[x] = 255
			}
		}
	}
	return mask
}

// InvertMask swaps masked and unmasked pixels.
func InvertMask(mask *image.Gray) *image.Gray {
	out := image.NewGray(mask.Rect)
	for i, v := range mask.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// MaskCoverage returns the fraction of pixels set to 255.
func MaskCoverage(mask *image.Gray) float64 {
	if len(mask.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range mask.Pix {
		if v == 255 {
			n++
		}
	}
	return float64(n) / float64(len(mask.Pix))
}
