// Package scene holds the layered slide configuration: its schema, defaults,
// JSON/YAML persistence and a Director that writes a starter configuration
// from regions detected in an image.
package scene

import "image/color"

const (
	DefaultWidth              = 1280
	DefaultHeight             = 720
	DefaultSlideDuration      = 5.0
	DefaultEntranceDuration   = 0.5
	DefaultAnimationDuration  = 1.0
	DefaultAnimationStartZoom = 1.0
	DefaultAnimationEndZoom   = 2.0
	DefaultTransitionType     = "fade"
	DefaultTransitionDuration = 0.5
)

// Slide backgrounds.
const (
	BackgroundWhite = "white"
	BackgroundBlack = "black"
)

// Layer drawing modes.
const (
	ModeStatic = "static"
	ModeDraw   = "draw"
	ModeEraser = "eraser"
)

// Config is a layered video description. It is read-only once loaded.
type Config struct {
	Width       int          `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int          `json:"height,omitempty" yaml:"height,omitempty"`
	Background  string       `json:"background,omitempty" yaml:"background,omitempty"`
	Slides      []Slide      `json:"slides" yaml:"slides"`
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// Size returns the canvas size, falling back to 1280x720.
func (c *Config) Size() (int, int) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// BackgroundColor is the colour every slide starts from, white by default.
// Layers are composited additively, so content only shows over a dark
// background.
func (c *Config) BackgroundColor() color.RGBA {
	if c.Background == BackgroundBlack {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{0xff, 0xff, 0xff, 0xff}
}

// TransitionAfter returns the first transition configured after slide i.
func (c *Config) TransitionAfter(i int) (Transition, bool) {
	for _, t := range c.Transitions {
		if t.AfterSlide == i {
			return t, true
		}
	}
	return Transition{}, false
}

type Slide struct {
	Duration *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Layers   []Layer  `json:"layers" yaml:"layers"`
}

// Seconds is the target slide length.
func (s Slide) Seconds() float64 {
	if s.Duration == nil {
		return DefaultSlideDuration
	}
	return *s.Duration
}

type Layer struct {
	ImagePath string   `json:"image_path" yaml:"image_path"`
	Position  Offset   `json:"position,omitempty" yaml:"position,omitempty"`
	Scale     float64  `json:"scale,omitempty" yaml:"scale,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	// SkipRate is accepted for older configs and not used.
	SkipRate  int        `json:"skip_rate,omitempty" yaml:"skip_rate,omitempty"`
	Mode      string     `json:"mode,omitempty" yaml:"mode,omitempty"`
	ZIndex    int        `json:"z_index" yaml:"z_index"`
	Entrance  *Entrance  `json:"entrance_animation,omitempty" yaml:"entrance_animation,omitempty"`
	Camera    *Camera    `json:"camera,omitempty" yaml:"camera,omitempty"`
	Animation *Animation `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// ScaleFactor defaults to 1.
func (l Layer) ScaleFactor() float64 {
	if l.Scale <= 0 {
		return 1
	}
	return l.Scale
}

// Alpha is the layer opacity clamped to [0,1], default 1.
func (l Layer) Alpha() float64 {
	if l.Opacity == nil {
		return 1
	}
	return min(max(*l.Opacity, 0), 1)
}

// DrawMode defaults to draw.
func (l Layer) DrawMode() string {
	if l.Mode == "" {
		return ModeDraw
	}
	return l.Mode
}

// Offset is a pixel translation.
type Offset struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Focus is a point in normalised canvas coordinates.
type Focus struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Center is the middle of the frame.
var Center = Focus{X: 0.5, Y: 0.5}

type Entrance struct {
	Type     string   `json:"type" yaml:"type"`
	Duration *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func (e Entrance) Seconds() float64 {
	if e.Duration == nil {
		return DefaultEntranceDuration
	}
	return *e.Duration
}

type Camera struct {
	Zoom     float64 `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	Position *Focus  `json:"position,omitempty" yaml:"position,omitempty"`
}

// View resolves the camera defaults: zoom 1 at the frame centre.
func (c Camera) View() (float64, Focus) {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	focus := Center
	if c.Position != nil {
		focus = *c.Position
	}
	return zoom, focus
}

type Animation struct {
	Type          string   `json:"type" yaml:"type"`
	Duration      *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	StartZoom     float64  `json:"start_zoom,omitempty" yaml:"start_zoom,omitempty"`
	EndZoom       float64  `json:"end_zoom,omitempty" yaml:"end_zoom,omitempty"`
	FocusPosition *Focus   `json:"focus_position,omitempty" yaml:"focus_position,omitempty"`
}

func (a Animation) Seconds() float64 {
	if a.Duration == nil {
		return DefaultAnimationDuration
	}
	return *a.Duration
}

// Zooms returns the start and end zoom with defaults applied.
func (a Animation) Zooms() (float64, float64) {
	start, end := a.StartZoom, a.EndZoom
	if start <= 0 {
		start = DefaultAnimationStartZoom
	}
	if end <= 0 {
		end = DefaultAnimationEndZoom
	}
	return start, end
}

func (a Animation) Focus() Focus {
	if a.FocusPosition == nil {
		return Center
	}
	return *a.FocusPosition
}

type Transition struct {
	AfterSlide int      `json:"after_slide" yaml:"after_slide"`
	Type       string   `json:"type,omitempty" yaml:"type,omitempty"`
	Duration   *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

func (t Transition) Kind() string {
	if t.Type == "" {
		return DefaultTransitionType
	}
	return t.Type
}

func (t Transition) Seconds() float64 {
	if t.Duration == nil {
		return DefaultTransitionDuration
	}
	return *t.Duration
}

// Float returns a pointer to v for the optional fields.
func Float(v float64) *float64 { return &v }
