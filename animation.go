package zoomview

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenJob is one eased transition of the transform. Its endpoints and
// duration never change after creation; only the gween timer inside advances.
type tweenJob struct {
	gen      uint64
	start    time.Time
	duration time.Duration

	scaled    bool // translation-only jobs leave the scale alone
	fromScale float64
	toScale   float64
	from      Vec2
	to        Vec2

	progress *gween.Tween
}

// newTranslateJob tweens only the translation.
func newTranslateJob(from, to Vec2, duration time.Duration, fn ease.TweenFunc) *tweenJob {
	return &tweenJob{
		duration: duration,
		from:     from,
		to:       to,
		progress: gween.New(0, 1, float32(duration.Seconds()), fn),
	}
}

// newZoomJob tweens scale and translation together.
func newZoomJob(fromScale, toScale float64, from, to Vec2, duration time.Duration, fn ease.TweenFunc) *tweenJob {
	j := newTranslateJob(from, to, duration, fn)
	j.scaled = true
	j.fromScale = fromScale
	j.toScale = toScale
	return j
}

// sample returns the interpolated scale and translation after elapsed time.
// At elapsed <= 0 it returns the start values exactly, and once elapsed
// reaches the duration it returns the end values exactly with done set.
func (j *tweenJob) sample(elapsed time.Duration) (scale float64, t Vec2, done bool) {
	if elapsed > j.duration {
		elapsed = j.duration
	}
	p, finished := j.progress.Set(float32(elapsed.Seconds()))
	if finished {
		return j.toScale, j.to, true
	}
	f := float64(p)
	scale = j.fromScale + (j.toScale-j.fromScale)*f
	t = Vec2{
		X: j.from.X + (j.to.X-j.from.X)*f,
		Y: j.from.Y + (j.to.Y-j.from.Y)*f,
	}
	return scale, t, false
}

// animator holds the single active tween. Starting a job bumps the
// generation; ticks carrying an older generation are ignored, so at most one
// tween writes to the transform at a time.
//
// job and gen belong to the queue-owning goroutine. active mirrors gen for
// the ticker goroutine and is zero while idle.
type animator struct {
	clock Clock
	job   *tweenJob
	gen   uint64

	active     atomic.Uint64
	tickQueued atomic.Bool
}

func newAnimator(clock Clock) *animator {
	return &animator{clock: clock}
}

// start makes j the active job, superseding any job in flight, and returns
// its generation.
func (a *animator) start(j *tweenJob) uint64 {
	a.gen++
	j.gen = a.gen
	j.start = a.clock.Now()
	a.job = j
	a.active.Store(a.gen)
	return a.gen
}

// cancel drops the active job, if any.
func (a *animator) cancel() {
	a.job = nil
	a.active.Store(0)
}

// running reports whether a job is in flight.
func (a *animator) running() bool {
	return a.job != nil
}

// tick advances the job of generation gen and writes it into tr. It returns
// false when gen is stale or nothing is running.
func (a *animator) tick(gen uint64, tr *Transform) bool {
	a.tickQueued.Store(false)
	j := a.job
	if j == nil || j.gen != gen {
		return false
	}
	scale, t, done := j.sample(a.clock.Now().Sub(j.start))
	if j.scaled {
		tr.SetScale(scale)
	}
	tr.SetTranslation(t.X, t.Y)
	if done {
		a.job = nil
		a.active.CompareAndSwap(gen, 0)
	}
	return true
}

// run posts a tick for the active generation every interval until ctx is
// cancelled. A tick is not posted again until the previous one has run.
func (a *animator) run(ctx context.Context, interval time.Duration, post func(gen uint64)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gen := a.active.Load()
			if gen == 0 {
				continue
			}
			if a.tickQueued.CompareAndSwap(false, true) {
				post(gen)
			}
		}
	}
}
