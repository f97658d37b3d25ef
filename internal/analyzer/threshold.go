package analyzer

import (
	"image"
	"math"
)

// AdaptiveThreshold classifies each pixel against a Gaussian-weighted mean
// of its window x window neighbourhood. The result is 255 where
// src > mean-bias and 0 otherwise, so ink comes out black. Borders replicate
// the edge pixels.
func AdaptiveThreshold(gray *image.Gray, window int, bias float64) *image.Gray {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	if w == 0 || h == 0 {
		return out
	}

	kernel := gaussianKernel(window)
	half := window / 2

	// Horizontal pass into a float buffer, vertical pass straight into the mean.
	tmp := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			var sum float32
			for k := -half; k <= half; k++ {
				sum += kernel[k+half] * float32(row[clamp(x+k, 0, w-1)])
			}
			tmp[y*w+x] = sum
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for k := -half; k <= half; k++ {
				sum += kernel[k+half] * tmp[clamp(y+k, 0, h-1)*w+x]
			}
			mean := math.Round(float64(sum))
			src := float64(gray.Pix[y*gray.Stride+x])
			if src > mean-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}

	return out
}

// gaussianKernel returns a normalised 1D kernel with the sigma OpenCV-style
// tools derive from the window size.
func gaussianKernel(size int) []float32 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	k := make([]float32, size)
	var sum float64
	vals := make([]float64, size)
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		vals[i+half] = v
		sum += v
	}
	for i, v := range vals {
		k[i] = float32(v / sum)
	}
	return k
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
