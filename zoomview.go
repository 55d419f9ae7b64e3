package zoomview

import (
	"errors"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/tanema/gween/ease"
)

// Overshoot is the elastic zoom margin allowed while a pinch is in progress.
// The stored scale may reach MinZoom/Overshoot and MaxZoom*Overshoot; the
// excess is removed when the gesture is released.
const Overshoot = 1 / 0.9

const (
	DefaultMinZoom          = 1.0
	DefaultMaxZoom          = 5.0
	DefaultFlingThreshold   = 800.0 // pixels per second
	DefaultZoomDuration     = 300 * time.Millisecond
	DefaultSnapBackDuration = 50 * time.Millisecond
	DefaultTickInterval     = 10 * time.Millisecond
)

var (
	// ErrNilProgram is returned when a Renderer is built without a Program.
	ErrNilProgram = errors.New("zoomview: program cannot be nil")
	// ErrBitmapMismatch is returned when a read-back buffer does not match the
	// loaded image in size or layout.
	ErrBitmapMismatch = errors.New("zoomview: bitmap must match the loaded image size and format")
	// ErrNotSetup is returned by programs used before Setup.
	ErrNotSetup = errors.New("zoomview: program used before setup")
)

// Vec2 is a 2D vector. In normalized space both axes span [-1, 1] with +Y up.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	W, H int
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle in normalized space. Top is the larger Y
// value, so an image centered on the origin has Top > 0 > Bottom.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Clock supplies the current time to the animation driver. Tests substitute
// a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config holds the tunables of a View. Zero fields take their defaults.
type Config struct {
	MinZoom          float64
	MaxZoom          float64
	FlingThreshold   float64
	ZoomDuration     time.Duration
	SnapBackDuration time.Duration
	TickInterval     time.Duration

	// Easing is the curve used by every tween. Defaults to ease.OutCubic.
	Easing ease.TweenFunc

	// Program is the rendering backend. Defaults to NewEbitenProgram().
	Program Program
	Clock   Clock
	Logger  *bslogger.Logger
}

// DefaultConfig returns the stock viewer configuration.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.MinZoom <= 0 {
		c.MinZoom = DefaultMinZoom
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = DefaultMaxZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	if c.FlingThreshold <= 0 {
		c.FlingThreshold = DefaultFlingThreshold
	}
	if c.ZoomDuration <= 0 {
		c.ZoomDuration = DefaultZoomDuration
	}
	if c.SnapBackDuration <= 0 {
		c.SnapBackDuration = DefaultSnapBackDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Easing == nil {
		c.Easing = ease.OutCubic
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.Logger == nil {
		l := bslogger.NewLogger("zoomview", bslogger.Normal, nil)
		c.Logger = &l
	}
	return c
}
