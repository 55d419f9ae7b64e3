package zoomview

import "github.com/tanema/gween/ease"

// EaseOut is the cubic ease-out used by the viewer's tweens: the rate of
// change starts high and decays to zero at t = duration. The endpoints are
// exact: t <= 0 returns start and t >= duration returns start+delta.
func EaseOut(t, start, delta, duration float64) float64 {
	return easeWith(ease.OutCubic, t, start, delta, duration)
}

// easeWith evaluates fn over a normalized [0, 1] range so the float32 curve
// only ever sees the progress fraction, not the values being interpolated.
func easeWith(fn ease.TweenFunc, t, start, delta, duration float64) float64 {
	if t <= 0 {
		return start
	}
	if duration <= 0 || t >= duration {
		return start + delta
	}
	p := fn(float32(t/duration), 0, 1, 1)
	return start + delta*float64(p)
}
