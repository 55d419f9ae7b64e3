package zoomview

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recordingProgram is a headless Program that remembers what it was asked
// to do.
type recordingProgram struct {
	setupErr  error
	setups    int
	bitmaps   []image.Image
	fb        Size
	renders   int
	lastM     [6]float64
	lastBound Rect
	reads     int
}

func (p *recordingProgram) Setup() error {
	p.setups++
	return p.setupErr
}

func (p *recordingProgram) SetBitmap(img image.Image) error {
	p.bitmaps = append(p.bitmaps, img)
	return nil
}

func (p *recordingProgram) SetFramebufferSize(w, h int) { p.fb = Size{w, h} }

func (p *recordingProgram) Render(_ *ebiten.Image, m [6]float64, bounds Rect) {
	p.renders++
	p.lastM = m
	p.lastBound = bounds
}

// ReadImage fills dst from the last uploaded bitmap.
func (p *recordingProgram) ReadImage(dst *image.RGBA) error {
	p.reads++
	src := p.bitmaps[len(p.bitmaps)-1]
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return nil
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newTestRenderer(t *testing.T) (*Renderer, *recordingProgram) {
	t.Helper()
	p := &recordingProgram{}
	r, err := NewRenderer(p, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, p
}

func TestNewRendererNilProgram(t *testing.T) {
	r, err := NewRenderer(nil, nil)
	if !errors.Is(err, ErrNilProgram) {
		t.Errorf("err = %v, want ErrNilProgram", err)
	}
	if r != nil {
		t.Error("renderer returned alongside error")
	}
}

func TestRendererPendingBitmapAppliedAtSetup(t *testing.T) {
	r, p := newTestRenderer(t)
	var loaded image.Image
	r.SetOnBitmapLoaded(func(img image.Image) { loaded = img })

	first := solidImage(4, 4, color.RGBA{255, 0, 0, 255})
	second := solidImage(8, 2, color.RGBA{0, 255, 0, 255})
	if err := r.SetBitmap(first); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBitmap(second); err != nil {
		t.Fatal(err)
	}
	if len(p.bitmaps) != 0 || loaded != nil {
		t.Fatal("bitmap uploaded before setup")
	}

	if err := r.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if len(p.bitmaps) != 1 || p.bitmaps[0] != image.Image(second) {
		t.Fatalf("uploads = %d, want only the latest pending bitmap", len(p.bitmaps))
	}
	if loaded != image.Image(second) {
		t.Error("bitmap-loaded callback not fired with the pending bitmap")
	}
	if r.ImageSize() != (Size{8, 2}) {
		t.Errorf("ImageSize = %+v, want 8x2", r.ImageSize())
	}

	// Setup is idempotent.
	if err := r.Setup(); err != nil || p.setups != 1 {
		t.Errorf("second Setup: err=%v setups=%d", err, p.setups)
	}
}

func TestRendererSetupError(t *testing.T) {
	boom := errors.New("boom")
	p := &recordingProgram{setupErr: boom}
	r, _ := NewRenderer(p, nil)
	if err := r.Setup(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if r.Ready() {
		t.Error("renderer ready after failed setup")
	}
}

func TestRendererRenderBeforeSetupIgnored(t *testing.T) {
	r, p := newTestRenderer(t)
	frames := 0
	r.SetOnRenderCompleted(func() { frames++ })
	r.Render(nil, identityTransform, Rect{})
	if p.renders != 0 || frames != 0 {
		t.Error("rendered before setup")
	}

	_ = r.Setup()
	m := [6]float64{2, 0, 0, 2, 0.5, -0.25}
	bounds := Rect{-1, 0.5, 1, -0.5}
	r.Render(nil, m, bounds)
	if p.renders != 1 || frames != 1 {
		t.Fatalf("renders=%d frames=%d, want 1 and 1", p.renders, frames)
	}
	if p.lastM != m || p.lastBound != bounds {
		t.Errorf("program got (%v, %+v)", p.lastM, p.lastBound)
	}
}

func TestRendererResize(t *testing.T) {
	r, p := newTestRenderer(t)
	r.Resize(640, 480)
	if p.fb != (Size{640, 480}) {
		t.Errorf("fb = %+v, want 640x480", p.fb)
	}
}

func TestRendererReadBitmap(t *testing.T) {
	r, p := newTestRenderer(t)
	_ = r.Setup()

	// No bitmap: nothing happens.
	called := false
	r.SetOnReadbackCompleted(func(*image.RGBA) { called = true })
	got, err := r.ReadBitmap(nil)
	if got != nil || err != nil || called || p.reads != 0 {
		t.Fatalf("read with no bitmap = (%v, %v), called=%v", got, err, called)
	}

	red := color.RGBA{200, 10, 20, 255}
	_ = r.SetBitmap(solidImage(3, 2, red))

	got, err = r.ReadBitmap(nil)
	if err != nil {
		t.Fatalf("ReadBitmap(nil): %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("allocated bounds = %v, want 3x2", got.Bounds())
	}
	if got.RGBAAt(2, 1) != red {
		t.Errorf("pixel = %v, want %v", got.RGBAAt(2, 1), red)
	}
	if !called {
		t.Error("read-back callback not fired")
	}

	dst := image.NewRGBA(image.Rect(0, 0, 3, 2))
	got, err = r.ReadBitmap(dst)
	if err != nil || got != dst {
		t.Errorf("ReadBitmap(dst) = (%p, %v), want dst", got, err)
	}
}

func TestRendererReadBitmapMismatch(t *testing.T) {
	r, p := newTestRenderer(t)
	_ = r.Setup()
	_ = r.SetBitmap(solidImage(4, 4, color.RGBA{A: 255}))

	cases := map[string]*image.RGBA{
		"wrong size": image.NewRGBA(image.Rect(0, 0, 4, 3)),
		"offset":     image.NewRGBA(image.Rect(1, 1, 5, 5)),
		"sub-image":  image.NewRGBA(image.Rect(0, 0, 8, 8)).SubImage(image.Rect(0, 0, 4, 4)).(*image.RGBA),
	}
	for name, dst := range cases {
		if _, err := r.ReadBitmap(dst); !errors.Is(err, ErrBitmapMismatch) {
			t.Errorf("%s: err = %v, want ErrBitmapMismatch", name, err)
		}
	}
	if p.reads != 0 {
		t.Errorf("program read %d times on mismatched targets", p.reads)
	}
}
