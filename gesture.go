package zoomview

import (
	"math"
	"time"
)

// ScaleEvent is one step of a pinch. Factor is the span ratio since the
// previous step; the focus is in viewport pixels.
type ScaleEvent struct {
	Factor         float64
	FocusX, FocusY float64
}

// ScrollEvent is one step of a drag. Distance is the pointer travel since
// the previous step in pixels, positive when the pointer moved left or up.
type ScrollEvent struct {
	DistanceX, DistanceY float64
	Pointers             int
}

// FlingEvent is a drag released with velocity. Start and End are the pixel
// positions of the first and last events of the drag; velocity is in pixels
// per second.
type FlingEvent struct {
	StartX, StartY       float64
	EndX, EndY           float64
	VelocityX, VelocityY float64
	Pointers             int
}

// TapEvent is a double-tap at a viewport pixel.
type TapEvent struct {
	X, Y float64
}

// OnScaleBegin marks the start of a pinch. Any running tween is dropped.
func (v *View) OnScaleBegin() {
	v.queue.Post(func() {
		v.scaling = true
		v.anim.cancel()
	})
}

// OnScaleEnd marks the end of a pinch.
func (v *View) OnScaleEnd() {
	v.queue.Post(func() { v.scaling = false })
}

// OnScale zooms about the event's focus point.
func (v *View) OnScale(e ScaleEvent) {
	v.queue.Post(func() { v.scale(e) })
}

// OnScroll pans by the event's distance.
func (v *View) OnScroll(e ScrollEvent) {
	v.queue.Post(func() { v.scroll(e) })
}

// OnFling glides to where the drag would have carried the image.
func (v *View) OnFling(e FlingEvent) {
	v.queue.Post(func() { v.fling(e) })
}

// OnDoubleTap steps the zoom through half, full and minimum zoom, centering
// on the tapped point.
func (v *View) OnDoubleTap(e TapEvent) {
	v.queue.Post(func() { v.doubleTap(e) })
}

// OnTouchUp snaps an overshot zoom back into range.
func (v *View) OnTouchUp() {
	v.queue.Post(v.touchUp)
}

// ZoomTo eases to scale and center (cx, cy) in normalized space over
// duration. Targets are clamped to the zoom range and constrained. A
// non-positive duration jumps immediately.
func (v *View) ZoomTo(scale, cx, cy float64, duration time.Duration) {
	v.queue.Post(func() { v.zoomTo(scale, Vec2{cx, cy}, duration) })
}

func (v *View) viewportKnown() bool {
	return !v.transform.Viewport().Empty()
}

func (v *View) scale(e ScaleEvent) {
	if !v.viewportKnown() || !finite(e.Factor, e.FocusX, e.FocusY) || e.Factor <= 0 {
		return
	}
	tr := v.transform
	if tr.Scale() >= tr.MaxZoom()*Overshoot {
		return
	}
	focus, _ := tr.PixelToNormalized(e.FocusX, e.FocusY)
	tr.ScaleAbout(e.Factor, focus.X, focus.Y)
	if tr.Scale() <= tr.MaxZoom() {
		v.lastValidCenter = tr.Translation()
	}
	v.markDirty()
}

func (v *View) scroll(e ScrollEvent) {
	if e.Pointers > 1 || v.scaling || !v.viewportKnown() || !finite(e.DistanceX, e.DistanceY) {
		return
	}
	vp := v.transform.Viewport()
	dx := -2 * e.DistanceX / float64(vp.W)
	dy := 2 * e.DistanceY / float64(vp.H)
	v.anim.cancel()
	v.transform.TranslateBy(dx, dy)
	v.lastValidCenter = v.transform.Translation()
	v.markDirty()
}

func (v *View) fling(e FlingEvent) {
	if e.Pointers > 1 || v.scaling || !v.viewportKnown() {
		return
	}
	if !finite(e.StartX, e.StartY, e.EndX, e.EndY, e.VelocityX, e.VelocityY) {
		return
	}
	if math.Abs(e.VelocityX) <= v.cfg.FlingThreshold && math.Abs(e.VelocityY) <= v.cfg.FlingThreshold {
		return
	}
	tr := v.transform
	vp := tr.Viewport()
	from := tr.Translation()
	rawX := from.X + 2*(e.EndX-e.StartX)/float64(vp.W)
	rawY := from.Y - 2*(e.EndY-e.StartY)/float64(vp.H)
	to := tr.Constrain(rawX, rawY, tr.Scale())

	v.lastValidCenter = to
	v.anim.start(newTranslateJob(from, to, v.cfg.ZoomDuration, v.cfg.Easing))
	v.log.Debugf("fling to (%.3f, %.3f)", to.X, to.Y)
	v.markDirty()
}

// nextZoomStep cycles min -> max/2 -> max -> min.
func nextZoomStep(s, minZoom, maxZoom float64) float64 {
	switch {
	case s < maxZoom/2:
		return maxZoom / 2
	case s < maxZoom:
		return maxZoom
	default:
		return minZoom
	}
}

func (v *View) doubleTap(e TapEvent) {
	if !v.viewportKnown() || !finite(e.X, e.Y) {
		return
	}
	tr := v.transform
	vp := tr.Viewport()
	s := tr.Scale()
	next := nextZoomStep(s, tr.MinZoom(), tr.MaxZoom())
	k := next / s

	t := tr.Translation()
	dx := 1 - 2*e.X/float64(vp.W)
	dy := 2*e.Y/float64(vp.H) - 1
	center := tr.Constrain((dx+t.X)*k, (dy+t.Y)*k, next)

	v.lastValidCenter = center
	v.anim.start(newZoomJob(s, next, t, center, v.cfg.ZoomDuration, v.cfg.Easing))
	v.log.Debugf("zoom to %.2f at (%.3f, %.3f)", next, center.X, center.Y)
	v.markDirty()
}

func (v *View) touchUp() {
	tr := v.transform
	s := tr.Scale()
	switch {
	case s < tr.MinZoom():
		v.anim.start(newZoomJob(s, tr.MinZoom(), tr.Translation(), Vec2{}, v.cfg.SnapBackDuration, v.cfg.Easing))
	case s > tr.MaxZoom():
		v.anim.start(newZoomJob(s, tr.MaxZoom(), tr.Translation(), v.lastValidCenter, v.cfg.SnapBackDuration, v.cfg.Easing))
	default:
		return
	}
	v.markDirty()
}

func (v *View) zoomTo(scale float64, center Vec2, duration time.Duration) {
	if !finite(scale, center.X, center.Y) {
		return
	}
	tr := v.transform
	scale = math.Max(tr.MinZoom(), math.Min(scale, tr.MaxZoom()))
	to := tr.Constrain(center.X, center.Y, scale)
	v.lastValidCenter = to
	if duration <= 0 {
		v.anim.cancel()
		tr.SetScale(scale)
		tr.SetTranslation(to.X, to.Y)
	} else {
		v.anim.start(newZoomJob(tr.Scale(), scale, tr.Translation(), to, duration, v.cfg.Easing))
	}
	v.log.Debugf("zoom to %.2f at (%.3f, %.3f)", scale, to.X, to.Y)
	v.markDirty()
}

func finite(vals ...float64) bool {
	for _, f := range vals {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
