package zoomview

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/hajimehoshi/ebiten/v2"
)

// View is a zoomable single-image viewer. It implements ebiten.Game.
//
// The transform, animator and renderer belong to the render goroutine:
// ebiten's game goroutine under Run, or whichever goroutine calls Flush in
// headless use. Every other goroutine talks to the View through its public
// methods, which post commands to the work queue and return immediately.
type View struct {
	cfg       Config
	log       *bslogger.Logger
	transform *Transform
	anim      *animator
	renderer  *Renderer
	queue     workQueue
	dirty     atomic.Bool

	scaling         bool
	lastValidCenter Vec2

	onBitmapLoaded func(image.Image)

	recognizer *Recognizer
	runner     *TestRunner
	hud        bool
	hudImage   *ebiten.Image
	debug      bool
	lastFrame  time.Time

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	startOnce sync.Once
	err       error
}

// NewView builds a View from cfg. Zero Config fields take their defaults and
// a nil Program becomes NewEbitenProgram().
func NewView(cfg Config) (*View, error) {
	cfg = cfg.withDefaults()
	if cfg.Program == nil {
		cfg.Program = NewEbitenProgram()
	}
	r, err := NewRenderer(cfg.Program, cfg.Logger)
	if err != nil {
		return nil, err
	}
	v := &View{
		cfg:           cfg,
		log:           cfg.Logger,
		transform:     NewTransform(cfg.MinZoom, cfg.MaxZoom),
		anim:          newAnimator(cfg.Clock),
		renderer:      r,
		ScreenshotDir: "screenshots",
	}
	r.SetOnBitmapLoaded(v.bitmapLoaded)
	return v, nil
}

// Config returns the effective configuration.
func (v *View) Config() Config { return v.cfg }

// Transform returns the live transform. Only the render goroutine may use it.
func (v *View) Transform() *Transform { return v.transform }

// Renderer returns the surface host. Only the render goroutine may use it.
func (v *View) Renderer() *Renderer { return v.renderer }

// LastValidCenter returns the snap-back anchor. Render goroutine only.
func (v *View) LastValidCenter() Vec2 { return v.lastValidCenter }

// Animating reports whether a tween is in flight. Render goroutine only.
func (v *View) Animating() bool { return v.anim.running() }

// SetRecognizer replaces the gesture recognizer polled every Update. Run
// installs a default one when none is set.
func (v *View) SetRecognizer(r *Recognizer) { v.recognizer = r }

// SetImage displays img. Before the surface exists the image is kept and
// uploaded when it is created. Safe from any goroutine.
func (v *View) SetImage(img image.Image) {
	v.queue.Post(func() {
		if err := v.renderer.SetBitmap(img); err != nil {
			v.fail(err)
		}
		v.markDirty()
	})
}

// RequestBitmap copies the displayed bitmap into dst and calls done with it
// on the render goroutine. A nil dst is allocated. Nothing happens while no
// image is loaded. A dst that does not match the image panics on the render
// goroutine. Safe from any goroutine.
func (v *View) RequestBitmap(dst *image.RGBA, done func(*image.RGBA)) {
	v.queue.Post(func() {
		out, err := v.renderer.ReadBitmap(dst)
		if err != nil {
			panic(err)
		}
		if out != nil && done != nil {
			done(out)
		}
	})
}

// SetOnBitmapLoaded sets the callback fired on the render goroutine after a
// bitmap is uploaded.
func (v *View) SetOnBitmapLoaded(fn func(image.Image)) {
	v.queue.Post(func() { v.onBitmapLoaded = fn })
}

// SetOnRenderCompleted sets the callback fired on the render goroutine after
// every rendered frame.
func (v *View) SetOnRenderCompleted(fn func()) {
	v.queue.Post(func() { v.renderer.SetOnRenderCompleted(fn) })
}

// SetOnReadbackCompleted sets the callback fired on the render goroutine
// after every read-back, in addition to the per-request callback.
func (v *View) SetOnReadbackCompleted(fn func(*image.RGBA)) {
	v.queue.Post(func() { v.renderer.SetOnReadbackCompleted(fn) })
}

// SetDebugMode enables per-frame render stats at debug level.
func (v *View) SetDebugMode(enabled bool) {
	v.queue.Post(func() { v.debug = enabled })
}

// bitmapLoaded resets the view for a new image.
func (v *View) bitmapLoaded(img image.Image) {
	b := img.Bounds()
	v.anim.cancel()
	v.transform.SetImageSize(b.Dx(), b.Dy())
	v.transform.SetScale(v.cfg.MinZoom)
	v.transform.SetTranslation(0, 0)
	v.lastValidCenter = Vec2{}
	if v.onBitmapLoaded != nil {
		v.onBitmapLoaded(img)
	}
	v.markDirty()
}

// Start launches the animation ticker. It stops when ctx is cancelled.
// Only the first call has an effect.
func (v *View) Start(ctx context.Context) {
	v.startOnce.Do(func() {
		go v.anim.run(ctx, v.cfg.TickInterval, v.postTick)
	})
}

func (v *View) postTick(gen uint64) {
	v.queue.Post(func() {
		if v.anim.tick(gen, v.transform) {
			v.markDirty()
		}
	})
}

// Flush runs every queued command on the calling goroutine and returns how
// many ran. Update calls it once per tick; headless users call it directly.
func (v *View) Flush() int {
	return v.queue.Drain()
}

// Dirty reports whether a redraw is pending.
func (v *View) Dirty() bool { return v.dirty.Load() }

func (v *View) markDirty() { v.dirty.Store(true) }

func (v *View) fail(err error) {
	v.log.Error(err.Error())
	if v.err == nil {
		v.err = err
	}
}

// Resize sets the viewport size in pixels. Layout calls it; headless users
// call it directly on the render goroutine.
func (v *View) Resize(w, h int) {
	if v.transform.Viewport() == (Size{w, h}) {
		return
	}
	v.transform.SetViewportSize(w, h)
	v.renderer.Resize(w, h)
	v.markDirty()
}

// Update implements ebiten.Game. It creates the surface on the first call,
// feeds input, and drains the work queue. A backend failure ends the game.
func (v *View) Update() error {
	if !v.renderer.Ready() {
		if err := v.renderer.Setup(); err != nil {
			return err
		}
		v.markDirty()
	}
	if v.runner != nil {
		v.runner.step(v)
	}
	if v.recognizer != nil {
		v.recognizer.Update(v)
	}
	v.Flush()
	return v.err
}

// Draw implements ebiten.Game. The image is redrawn only when something
// changed; otherwise the previous frame stays on screen.
func (v *View) Draw(screen *ebiten.Image) {
	if v.dirty.Swap(false) || v.hud {
		start := time.Now()
		v.renderer.Render(screen, v.transform.Matrix(), v.transform.Bounds())
		if v.hud {
			v.drawHUD(screen)
		}
		if v.debug {
			v.debugLog(frameStats{
				renderTime: time.Since(start),
				frameGap:   start.Sub(v.lastFrame),
				scale:      v.transform.Scale(),
				center:     v.transform.Translation(),
				queued:     v.queue.Len(),
				animating:  v.anim.running(),
			})
		}
		v.lastFrame = start
	}
	v.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The surface always matches the window.
func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowHUD overlays FPS, zoom and the image pixel under the cursor.
	ShowHUD bool
}

// Run opens a window and runs v until the window closes. The animation
// ticker runs for the lifetime of the window.
func Run(v *View, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	v.hud = cfg.ShowHUD
	if v.recognizer == nil {
		v.recognizer = NewRecognizer()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v.Start(ctx)

	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}
