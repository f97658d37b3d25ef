package config

import "fmt"

const (
	DefaultFPS          = 30
	DefaultSplitLen     = 15
	DefaultSkipRate     = 8
	DefaultBgSkipRate   = 20
	DefaultHoldSeconds  = 3
	DefaultOutputDir    = "save_videos"
	DefaultHandPath     = "data/images/drawing-hand.png"
	DefaultHandMaskPath = "data/images/hand-mask.png"
	DefaultEraserPath   = "data/images/eraser.png"
	DefaultDPI          = 150
)

// Config holds everything the CLI resolves for a run.
type Config struct {
	InputPath     string
	OutputDir     string
	FPS           int
	SplitLen      int
	SkipRate      int
	BgSkipRate    int
	HoldSeconds   int
	ExportJSON    bool
	DetectObjects bool
	Platform      string
	HandPath      string
	HandMaskPath  string
	EraserPath    string
	Page          int
	DPI           int
	VideoEncoder  string
	Quality       int
	NoTranscode   bool
	ShowStats     bool
	Verbose       bool
	BuildVersion  string
}

// Default returns a Config populated with the stock CLI defaults.
func Default() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		FPS:          DefaultFPS,
		SplitLen:     DefaultSplitLen,
		SkipRate:     DefaultSkipRate,
		BgSkipRate:   DefaultBgSkipRate,
		HoldSeconds:  DefaultHoldSeconds,
		Platform:     "linux",
		HandPath:     DefaultHandPath,
		HandMaskPath: DefaultHandMaskPath,
		EraserPath:   DefaultEraserPath,
		DPI:          DefaultDPI,
	}
}

// Canvas is the immutable set of parameters a single run draws with.
type Canvas struct {
	FPS         int
	Width       int
	Height      int
	SplitLen    int
	SkipRate    int
	BgSkipRate  int
	HoldSeconds int
	ExportJSON  bool
}

// Canvas derives the per-run canvas parameters for the given resolution.
func (c *Config) Canvas(width, height int) (Canvas, error) {
	cv := Canvas{
		FPS:         c.FPS,
		Width:       width,
		Height:      height,
		SplitLen:    c.SplitLen,
		SkipRate:    c.SkipRate,
		BgSkipRate:  c.BgSkipRate,
		HoldSeconds: c.HoldSeconds,
		ExportJSON:  c.ExportJSON,
	}
	return cv, cv.Validate()
}

// Validate checks the invariants every engine relies on.
func (cv Canvas) Validate() error {
	switch {
	case cv.FPS <= 0:
		return fmt.Errorf("frame rate must be positive, got %d", cv.FPS)
	case cv.Width <= 0 || cv.Height <= 0:
		return fmt.Errorf("canvas size must be positive, got %dx%d", cv.Width, cv.Height)
	case cv.SplitLen <= 0:
		return fmt.Errorf("split length must be positive, got %d", cv.SplitLen)
	case cv.SkipRate <= 0:
		return fmt.Errorf("skip rate must be positive, got %d", cv.SkipRate)
	case cv.BgSkipRate <= 0:
		return fmt.Errorf("background skip rate must be positive, got %d", cv.BgSkipRate)
	case cv.HoldSeconds < 0:
		return fmt.Errorf("hold duration must not be negative, got %d", cv.HoldSeconds)
	}
	return nil
}

// HoldFrames is the number of times the final colour frame is repeated.
func (cv Canvas) HoldFrames() int {
	return cv.FPS * cv.HoldSeconds
}

// Codec maps a platform name onto the raw intermediate codec.
func Codec(platform string) string {
	if platform == "android" {
		return "mjpeg"
	}
	return "mpeg4"
}

// FrameCount converts a duration into a whole number of frames, truncating.
// A small epsilon absorbs float error such as 0.1*30 = 2.9999999999999996.
func FrameCount(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return int(seconds*float64(fps) + 1e-9)
}
