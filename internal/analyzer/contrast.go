package analyzer

import (
	"image"
	"math"
)

// ContrastDetector finds regions of interest with a Sobel edge pass,
// morphological dilation and connected-component bounding boxes.
type ContrastDetector struct {
	MinBlockArea  int     // Minimum area in pixels²
	EdgeThreshold float64 // Gradient magnitude threshold
	DilateKernel  int
	DilateIter    int
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,  // ~22x22 pixels minimum
		EdgeThreshold: 30.0, // Moderate sensitivity
		DilateKernel:  5,
		DilateIter:    2,
	}
}

// Detect finds regions of interest in img.
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	return d.DetectGray(Grayscale(img)), nil
}

// DetectGray runs detection on an already converted grayscale buffer.
func (d *ContrastDetector) DetectGray(gray *image.Gray) []Block {
	edges := sobelEdges(gray, d.EdgeThreshold)
	dilated := dilate(edges, d.DilateKernel, d.DilateIter)

	var blocks []Block
	for _, rect := range findContours(dilated) {
		if rect.Dx()*rect.Dy() < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{
			Rect:       rect,
			Type:       classify(rect),
			Confidence: 0.7,
		})
	}
	return blocks
}

// classify guesses a block type from its aspect ratio.
func classify(r image.Rectangle) string {
	aspect := float64(r.Dx()) / float64(r.Dy())
	switch {
	case aspect > 4:
		return "text"
	case aspect < 0.25:
		return "column"
	default:
		return "unknown"
	}
}

// sobelEdges marks pixels whose gradient magnitude exceeds threshold. The
// one-pixel border is left empty.
func sobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	edges := image.NewGray(image.Rect(0, 0, w, h))
	at := func(x, y int) float64 {
		return float64(gray.Pix[y*gray.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)

			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges.Pix[y*edges.Stride+x] = 255
			}
		}
	}
	return edges
}

// dilate grows white regions with a square max filter.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	result := image.NewGray(img.Rect)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2
	for iter := 0; iter < iterations; iter++ {
		next := image.NewGray(img.Rect)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var maxVal uint8
				for ky := max(0, y-half); ky <= min(h-1, y+half) && maxVal < 255; ky++ {
					for kx := max(0, x-half); kx <= min(w-1, x+half); kx++ {
						if v := result.Pix[ky*result.Stride+kx]; v > maxVal {
							maxVal = v
						}
					}
				}
				next.Pix[y*next.Stride+x] = maxVal
			}
		}
		result = next
	}
	return result
}

// findContours returns bounding rectangles of 4-connected white regions.
func findContours(img *image.Gray) []image.Rectangle {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	visited := make([]bool, w*h)

	var contours []image.Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] > 128 && !visited[y*w+x] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}
	return contours
}

// floodFill marks one component as visited and returns its bounds.
func floodFill(img *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	minX, minY, maxX, maxY := startX, startY, startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		idx := p.Y*w + p.X
		if visited[idx] || img.Pix[p.Y*img.Stride+p.X] <= 128 {
			continue
		}
		visited[idx] = true

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
