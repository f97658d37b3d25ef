// Package renderer implements the simulated camera: crop-and-rescale toward a
// focus point, and tweened zoom paths over a run of frames.
package renderer

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraState is a zoom level aimed at a point in normalised coordinates.
type CameraState struct {
	Zoom   float64 // 1.0 = whole frame
	FocusX float64
	FocusY float64
}

// Centered is the identity camera.
var Centered = CameraState{Zoom: 1, FocusX: 0.5, FocusY: 0.5}

// IsIdentity reports whether the camera leaves a frame unchanged.
func (c CameraState) IsIdentity() bool {
	return c == Centered
}

// ZoomPath returns count camera states whose zoom moves linearly from start
// toward end; state i sits at progress i/count, so end itself is never
// reached.
func ZoomPath(start, end, focusX, focusY float64, count int) []CameraState {
	if count <= 0 {
		return nil
	}
	tween := gween.New(float32(start), float32(end), float32(count), ease.Linear)
	path := make([]CameraState, count)
	for i := range path {
		z, _ := tween.Set(float32(i))
		path[i] = CameraState{Zoom: float64(z), FocusX: focusX, FocusY: focusY}
	}
	return path
}

// Ramp returns count weights rising linearly to exactly 1, weight i being
// (i+1)/count.
func Ramp(count int) []float64 {
	if count <= 0 {
		return nil
	}
	tween := gween.New(0, 1, float32(count), ease.Linear)
	out := make([]float64, count)
	for i := range out {
		w, _ := tween.Set(float32(i + 1))
		out[i] = float64(w)
	}
	return out
}
