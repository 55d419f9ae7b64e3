package zoomview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Program is the rendering backend a Renderer drives. Every method is called
// on the goroutine that owns the surface. Setup runs once before any
// SetBitmap or Render.
type Program interface {
	Setup() error
	// SetBitmap uploads img, replacing any previous image.
	SetBitmap(img image.Image) error
	SetFramebufferSize(w, h int)
	// Render draws one frame of the image whose scale-1 extent is bounds,
	// transformed by the affine matrix m (normalized space).
	Render(dst *ebiten.Image, m [6]float64, bounds Rect)
	// ReadImage copies the uploaded image into dst, which must match its
	// exact dimensions.
	ReadImage(dst *image.RGBA) error
}

// EbitenProgram is the default Program. It keeps the bitmap as an
// ebiten.Image and draws it with a single DrawImage call.
type EbitenProgram struct {
	// ClearColor fills the letterbox area each frame.
	ClearColor color.Color
	// Filter is used while the image is shown at or below its pixel size.
	Filter ebiten.Filter
	// PixelZoom is the on-screen pixels per image pixel above which drawing
	// switches to nearest-neighbour filtering. Zero disables the switch.
	PixelZoom float64

	texture *ebiten.Image
	fb      Size
	ready   bool
}

// NewEbitenProgram returns an EbitenProgram with a black background and
// linear filtering that turns to nearest-neighbour past 4x pixel zoom.
func NewEbitenProgram() *EbitenProgram {
	return &EbitenProgram{
		ClearColor: color.Black,
		Filter:     ebiten.FilterLinear,
		PixelZoom:  4,
	}
}

// Setup marks the program ready. Ebitengine owns the graphics context, so
// no further resources are needed until a bitmap arrives.
func (p *EbitenProgram) Setup() error {
	p.ready = true
	return nil
}

// SetBitmap uploads img to a new texture and frees the previous one.
func (p *EbitenProgram) SetBitmap(img image.Image) error {
	if !p.ready {
		return ErrNotSetup
	}
	if img == nil {
		return fmt.Errorf("set bitmap: nil image")
	}
	if p.texture != nil {
		p.texture.Deallocate()
	}
	p.texture = ebiten.NewImageFromImage(img)
	return nil
}

// SetFramebufferSize records the surface size used to map normalized space
// to pixels.
func (p *EbitenProgram) SetFramebufferSize(w, h int) {
	p.fb = Size{w, h}
}

// Render clears dst and draws the texture where m places bounds.
func (p *EbitenProgram) Render(dst *ebiten.Image, m [6]float64, bounds Rect) {
	if p.ClearColor != nil {
		dst.Fill(p.ClearColor)
	}
	if p.texture == nil {
		return
	}
	fb := p.fb
	if fb.Empty() {
		b := dst.Bounds()
		fb = Size{b.Dx(), b.Dy()}
	}
	tb := p.texture.Bounds()
	x, y, w, h := screenRect(m, bounds, fb)

	op := &ebiten.DrawImageOptions{}
	op.GeoM = imageGeoM(tb.Dx(), tb.Dy(), x, y, w, h)
	op.Filter = p.filterFor(tb.Dx(), w)
	dst.DrawImage(p.texture, op)
}

func (p *EbitenProgram) filterFor(texW int, screenW float64) ebiten.Filter {
	if p.PixelZoom > 0 && texW > 0 && screenW/float64(texW) > p.PixelZoom {
		return ebiten.FilterNearest
	}
	return p.Filter
}

// ReadImage reads the uploaded texture back into dst.
func (p *EbitenProgram) ReadImage(dst *image.RGBA) error {
	if p.texture == nil {
		return ErrNotSetup
	}
	b := p.texture.Bounds()
	if err := checkReadbackTarget(dst, Size{b.Dx(), b.Dy()}); err != nil {
		return err
	}
	p.texture.ReadPixels(dst.Pix[:4*b.Dx()*b.Dy()])
	return nil
}

// imageGeoM maps a texW x texH texture onto the pixel rectangle (x, y, w, h).
func imageGeoM(texW, texH int, x, y, w, h float64) ebiten.GeoM {
	var g ebiten.GeoM
	if texW == 0 || texH == 0 {
		return g
	}
	g.Scale(w/float64(texW), h/float64(texH))
	g.Translate(x, y)
	return g
}

// checkReadbackTarget verifies dst is a tightly packed RGBA buffer of size.
func checkReadbackTarget(dst *image.RGBA, size Size) error {
	if dst == nil {
		return fmt.Errorf("read image: nil target: %w", ErrBitmapMismatch)
	}
	b := dst.Bounds()
	if b.Min != (image.Point{}) || b.Dx() != size.W || b.Dy() != size.H {
		return fmt.Errorf("read image: target %dx%d at %v, image %dx%d: %w",
			b.Dx(), b.Dy(), b.Min, size.W, size.H, ErrBitmapMismatch)
	}
	if dst.Stride != 4*size.W || len(dst.Pix) < 4*size.W*size.H {
		return fmt.Errorf("read image: stride %d, want %d: %w", dst.Stride, 4*size.W, ErrBitmapMismatch)
	}
	return nil
}
