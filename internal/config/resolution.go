package config

// StandardResolutions lists the dimensions a canvas side may be snapped to.
var StandardResolutions = []int{360, 480, 640, 720, 1080, 1280, 1440, 1920, 2160, 2560, 3840, 4320, 7680}

// NearestResolution returns the standard value closest to v. Ties go to the
// smaller value.
func NearestResolution(v int) int {
	best := StandardResolutions[0]
	bestDist := absInt(v - best)
	for _, r := range StandardResolutions[1:] {
		if d := absInt(v - r); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// SnapResolution snaps the height first, re-derives the width from the
// original aspect ratio and snaps that independently.
func SnapResolution(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return NearestResolution(width), NearestResolution(height)
	}
	aspect := float64(width) / float64(height)
	h := NearestResolution(height)
	w := NearestResolution(int(float64(h) * aspect))
	return w, h
}

// CommonDivisors returns every common divisor of a and b in ascending order.
func CommonDivisors(a, b int) []int {
	var divs []int
	n := a
	if b < n {
		n = b
	}
	for i := 1; i <= n; i++ {
		if a%i == 0 && b%i == 0 {
			divs = append(divs, i)
		}
	}
	return divs
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
