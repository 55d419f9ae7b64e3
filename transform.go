package zoomview

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// scaleAboutMatrix returns Translate(f) * Scale(k) * Translate(-f).
func scaleAboutMatrix(k, fx, fy float64) [6]float64 {
	return [6]float64{k, 0, 0, k, fx - k*fx, fy - k*fy}
}

// Transform owns the viewer's uniform scale and translation together with the
// image bounds rectangle they apply to. All mutation goes through the
// constrained setters; inputs are clamped, never rejected.
//
// Transform is not safe for concurrent use. A View only touches it from the
// goroutine that drains its work queue.
type Transform struct {
	minZoom float64
	maxZoom float64

	scale  float64
	tx, ty float64

	bounds   Rect
	image    Size
	viewport Size
}

// NewTransform returns an identity transform with the given zoom limits.
func NewTransform(minZoom, maxZoom float64) *Transform {
	t := &Transform{minZoom: minZoom, maxZoom: maxZoom}
	t.scale = t.clampScale(1)
	return t
}

// MinZoom returns the lower zoom limit (without overshoot).
func (t *Transform) MinZoom() float64 { return t.minZoom }

// MaxZoom returns the upper zoom limit (without overshoot).
func (t *Transform) MaxZoom() float64 { return t.maxZoom }

// Scale returns the current uniform scale.
func (t *Transform) Scale() float64 { return t.scale }

// Translation returns the current translation in normalized space.
func (t *Transform) Translation() Vec2 { return Vec2{t.tx, t.ty} }

// Bounds returns the image bounds rectangle at scale 1.
func (t *Transform) Bounds() Rect { return t.bounds }

// Viewport returns the viewport size in pixels.
func (t *Transform) Viewport() Size { return t.viewport }

// ImageSize returns the loaded image size in pixels.
func (t *Transform) ImageSize() Size { return t.image }

// Matrix returns the transform as an affine matrix [a, b, c, d, tx, ty].
func (t *Transform) Matrix() [6]float64 {
	return [6]float64{t.scale, 0, 0, t.scale, t.tx, t.ty}
}

// SetScale clamps s to the overshoot range, stores it, and re-constrains the
// translation for the new scale.
func (t *Transform) SetScale(s float64) {
	t.scale = t.clampScale(s)
	t.constrainInPlace()
}

// SetTranslation constrains (tx, ty) at the current scale and stores it.
func (t *Transform) SetTranslation(tx, ty float64) {
	t.tx, t.ty = tx, ty
	t.constrainInPlace()
}

// TranslateBy adds (dx, dy) to the translation, then constrains.
func (t *Transform) TranslateBy(dx, dy float64) {
	t.SetTranslation(t.tx+dx, t.ty+dy)
}

// ScaleBy multiplies the scale by factor, keeping the translation, then
// clamps and constrains.
func (t *Transform) ScaleBy(factor float64) {
	t.SetScale(t.scale * factor)
}

// ScaleAbout scales by factor about the normalized focal point (fx, fy),
// keeping that point fixed on screen, then clamps the scale and constrains
// the translation.
func (t *Transform) ScaleAbout(factor, fx, fy float64) {
	m := multiplyAffine(scaleAboutMatrix(factor, fx, fy), t.Matrix())
	t.scale = t.clampScale(m[0])
	t.tx, t.ty = m[4], m[5]
	t.constrainInPlace()
}

// Constrain clamps a candidate translation so the image scaled by scale
// cannot travel past the opposite edge of the viewport. The allowed travel on
// each axis grows with how much larger than the viewport the scaled image is.
// Constrain is pure.
func (t *Transform) Constrain(tx, ty, scale float64) Vec2 {
	boundX := math.Max(scale*t.bounds.Right, 1)
	boundY := math.Max(scale*t.bounds.Top, 1)
	return Vec2{constrainAxis(tx, boundX), constrainAxis(ty, boundY)}
}

func constrainAxis(v, bound float64) float64 {
	if v < 0 {
		return math.Max(v, 1-bound)
	}
	return math.Min(v, bound-1)
}

func (t *Transform) constrainInPlace() {
	c := t.Constrain(t.tx, t.ty, t.scale)
	t.tx, t.ty = c.X, c.Y
}

func (t *Transform) clampScale(s float64) float64 {
	lo := t.minZoom / Overshoot
	hi := t.maxZoom * Overshoot
	return math.Max(lo, math.Min(s, hi))
}

// SetImageSize records the bitmap size and recomputes the bounds.
func (t *Transform) SetImageSize(w, h int) {
	t.image = Size{w, h}
	t.recomputeBounds()
}

// SetViewportSize records the viewport size and recomputes the bounds.
func (t *Transform) SetViewportSize(w, h int) {
	t.viewport = Size{w, h}
	t.recomputeBounds()
}

// recomputeBounds fits the image inside the viewport preserving its aspect
// ratio (letterbox or pillarbox). Images smaller than the viewport keep their
// pixel size along the fitted axis. No-op until both sizes are known.
func (t *Transform) recomputeBounds() {
	if t.image.Empty() || t.viewport.Empty() {
		return
	}
	bw, bh := float64(t.image.W), float64(t.image.H)
	vw, vh := float64(t.viewport.W), float64(t.viewport.H)

	imgAspect := bw / bh
	vpAspect := vw / vh

	var halfW, halfH float64
	if imgAspect > vpAspect {
		halfW = math.Min(1, bw/vw)
		halfH = halfW * vpAspect / imgAspect
	} else {
		halfH = math.Min(1, bh/vh)
		halfW = imgAspect / vpAspect
	}
	t.bounds = Rect{Left: -halfW, Top: halfH, Right: halfW, Bottom: -halfH}
}

// PixelToNormalized converts a viewport pixel position (origin top-left, Y
// down) to normalized space. ok is false while the viewport size is unknown.
func (t *Transform) PixelToNormalized(px, py float64) (n Vec2, ok bool) {
	if t.viewport.Empty() {
		return Vec2{}, false
	}
	return Vec2{
		X: 2*px/float64(t.viewport.W) - 1,
		Y: 1 - 2*py/float64(t.viewport.H),
	}, true
}

// NormalizedToPixel converts a normalized point to viewport pixels.
func (t *Transform) NormalizedToPixel(nx, ny float64) (px, py float64) {
	return (nx + 1) / 2 * float64(t.viewport.W), (1 - ny) / 2 * float64(t.viewport.H)
}

// ScreenRect returns the image's on-screen rectangle in viewport pixels
// (X, Y of the top-left corner, then width and height) for the current
// transform.
func (t *Transform) ScreenRect() (x, y, w, h float64) {
	return screenRect(t.Matrix(), t.bounds, t.viewport)
}

// screenRect maps the bounds' corners through m and into pixel space.
func screenRect(m [6]float64, bounds Rect, viewport Size) (x, y, w, h float64) {
	lx, ty := transformPoint(m, bounds.Left, bounds.Top)
	rx, by := transformPoint(m, bounds.Right, bounds.Bottom)
	vw, vh := float64(viewport.W), float64(viewport.H)
	x0 := (lx + 1) / 2 * vw
	y0 := (1 - ty) / 2 * vh
	x1 := (rx + 1) / 2 * vw
	y1 := (1 - by) / 2 * vh
	return x0, y0, x1 - x0, y1 - y0
}

// ImagePixelAt returns the image pixel under the viewport pixel (px, py).
// ok is false when the point falls outside the image or sizes are unknown.
func (t *Transform) ImagePixelAt(px, py float64) (ix, iy int, ok bool) {
	n, ok := t.PixelToNormalized(px, py)
	if !ok || t.image.Empty() || t.bounds.Width() == 0 || t.bounds.Height() == 0 {
		return 0, 0, false
	}
	bx, by := transformPoint(invertAffine(t.Matrix()), n.X, n.Y)
	u := (bx - t.bounds.Left) / t.bounds.Width()
	v := (t.bounds.Top - by) / t.bounds.Height()
	if u < 0 || u >= 1 || v < 0 || v >= 1 {
		return 0, 0, false
	}
	return int(u * float64(t.image.W)), int(v * float64(t.image.H)), true
}
