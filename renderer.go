package zoomview

import (
	"fmt"
	"image"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer hosts a Program on the render surface. It owns the surface
// lifecycle: a bitmap handed over before the surface exists is kept pending
// and uploaded once Setup runs. All methods run on the render goroutine.
type Renderer struct {
	program Program
	log     *bslogger.Logger

	ready   bool
	pending image.Image
	image   Size
	fb      Size

	onBitmapLoaded    func(image.Image)
	onRenderCompleted func()
	onReadback        func(*image.RGBA)
}

// NewRenderer wraps p. It returns ErrNilProgram when p is nil. A nil log
// gets the default "zoomview" logger.
func NewRenderer(p Program, log *bslogger.Logger) (*Renderer, error) {
	if p == nil {
		return nil, ErrNilProgram
	}
	if log == nil {
		l := bslogger.NewLogger("zoomview", bslogger.Normal, nil)
		log = &l
	}
	return &Renderer{program: p, log: log}, nil
}

// Program returns the wrapped backend.
func (r *Renderer) Program() Program { return r.program }

// Ready reports whether Setup has completed.
func (r *Renderer) Ready() bool { return r.ready }

// ImageSize returns the size of the uploaded bitmap, zero before the first
// upload.
func (r *Renderer) ImageSize() Size { return r.image }

// SetOnBitmapLoaded sets the callback fired after a bitmap is uploaded.
func (r *Renderer) SetOnBitmapLoaded(fn func(image.Image)) { r.onBitmapLoaded = fn }

// SetOnRenderCompleted sets the callback fired after every frame.
func (r *Renderer) SetOnRenderCompleted(fn func()) { r.onRenderCompleted = fn }

// SetOnReadbackCompleted sets the callback fired after ReadBitmap copies
// pixels.
func (r *Renderer) SetOnReadbackCompleted(fn func(*image.RGBA)) { r.onReadback = fn }

// Setup is called once the surface exists. It initializes the program and
// uploads any pending bitmap. Calling it again is a no-op.
func (r *Renderer) Setup() error {
	if r.ready {
		return nil
	}
	if err := r.program.Setup(); err != nil {
		r.log.Errorf("program setup: %s", err)
		return fmt.Errorf("renderer setup: %w", err)
	}
	r.ready = true
	r.log.Info("surface created")
	if r.pending != nil {
		img := r.pending
		r.pending = nil
		return r.upload(img)
	}
	return nil
}

// SetBitmap uploads img, or keeps it pending until Setup when the surface
// does not exist yet. A later pending bitmap replaces an earlier one.
func (r *Renderer) SetBitmap(img image.Image) error {
	if img == nil {
		return nil
	}
	if !r.ready {
		r.pending = img
		return nil
	}
	return r.upload(img)
}

func (r *Renderer) upload(img image.Image) error {
	if err := r.program.SetBitmap(img); err != nil {
		r.log.Errorf("bitmap upload: %s", err)
		return fmt.Errorf("renderer upload: %w", err)
	}
	b := img.Bounds()
	r.image = Size{b.Dx(), b.Dy()}
	r.log.Debugf("bitmap loaded %dx%d", r.image.W, r.image.H)
	if r.onBitmapLoaded != nil {
		r.onBitmapLoaded(img)
	}
	return nil
}

// Resize forwards a framebuffer size change to the program. Unchanged sizes
// are ignored.
func (r *Renderer) Resize(w, h int) {
	if r.fb == (Size{w, h}) {
		return
	}
	r.fb = Size{w, h}
	r.program.SetFramebufferSize(w, h)
	r.log.Infof("surface changed %dx%d", w, h)
}

// Render draws one frame and fires the render-completed callback.
func (r *Renderer) Render(dst *ebiten.Image, m [6]float64, bounds Rect) {
	if !r.ready {
		return
	}
	r.program.Render(dst, m, bounds)
	if r.onRenderCompleted != nil {
		r.onRenderCompleted()
	}
}

// ReadBitmap copies the uploaded bitmap into dst and fires the read-back
// callback. A nil dst is allocated at the bitmap's size. With no bitmap
// loaded it does nothing and returns (nil, nil). A dst whose size or layout
// does not match returns ErrBitmapMismatch without copying.
func (r *Renderer) ReadBitmap(dst *image.RGBA) (*image.RGBA, error) {
	if !r.ready || r.image.Empty() {
		return nil, nil
	}
	if dst == nil {
		dst = image.NewRGBA(image.Rect(0, 0, r.image.W, r.image.H))
	}
	if err := checkReadbackTarget(dst, r.image); err != nil {
		return nil, err
	}
	if err := r.program.ReadImage(dst); err != nil {
		return nil, fmt.Errorf("read bitmap: %w", err)
	}
	if r.onReadback != nil {
		r.onReadback(dst)
	}
	return dst, nil
}
