package zoomview

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers            = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone    = 4.0 // pixels
	defaultDoubleTapWindow = 300 * time.Millisecond
	defaultDoubleTapSlop   = 24.0 // pixels between the two taps
	defaultWheelStep       = 1.1  // zoom factor per wheel notch
	velocityWindow         = 100 * time.Millisecond
	maxVelocitySamples     = 16
)

// GestureListener receives the gestures a Recognizer detects. View
// implements it.
type GestureListener interface {
	OnScaleBegin()
	OnScale(ScaleEvent)
	OnScaleEnd()
	OnScroll(ScrollEvent)
	OnFling(FlingEvent)
	OnDoubleTap(TapEvent)
	OnTouchUp()
}

// --- Per-pointer state ---

type pointerSample struct {
	at   time.Time
	x, y float64
}

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	pinched  bool // took part in a pinch; no drag, fling or tap until released
	samples  []pointerSample
}

func (ps *pointerState) addSample(at time.Time, x, y float64) {
	if len(ps.samples) == maxVelocitySamples {
		copy(ps.samples, ps.samples[1:])
		ps.samples = ps.samples[:len(ps.samples)-1]
	}
	ps.samples = append(ps.samples, pointerSample{at, x, y})
}

// velocity returns pixels per second over the samples inside velocityWindow.
func (ps *pointerState) velocity(now time.Time) (vx, vy float64) {
	if len(ps.samples) < 2 {
		return 0, 0
	}
	last := ps.samples[len(ps.samples)-1]
	first := last
	for i := len(ps.samples) - 2; i >= 0; i-- {
		if now.Sub(ps.samples[i].at) > velocityWindow {
			break
		}
		first = ps.samples[i]
	}
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (last.x - first.x) / dt, (last.y - first.y) / dt
}

// --- Pinch state ---

type pinchState struct {
	active   bool
	pointer0 int
	pointer1 int
	prevDist float64
}

// Recognizer turns ebiten mouse, touch and wheel input into scroll, fling,
// pinch, double-tap and touch-up gestures. Call Update once per tick.
type Recognizer struct {
	// DragDeadZone is how far a pointer must travel before it scrolls.
	DragDeadZone float64
	// DoubleTapWindow and DoubleTapSlop bound the time and distance between
	// the two taps of a double-tap.
	DoubleTapWindow time.Duration
	DoubleTapSlop   float64
	// WheelStep is the zoom factor per wheel notch.
	WheelStep float64

	clock        Clock
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	pinch        pinchState

	hasTap bool
	tapAt  time.Time
	tapX   float64
	tapY   float64

	injectQueue [][]syntheticPointerEvent
}

// NewRecognizer returns a Recognizer with default thresholds.
func NewRecognizer() *Recognizer {
	return &Recognizer{
		DragDeadZone:    defaultDragDeadZone,
		DoubleTapWindow: defaultDoubleTapWindow,
		DoubleTapSlop:   defaultDoubleTapSlop,
		WheelStep:       defaultWheelStep,
		clock:           systemClock{},
	}
}

// Update polls input for one tick and reports gestures to l. While injected
// events are queued they replace real input.
func (r *Recognizer) Update(l GestureListener) {
	if r.processInjectedInput(l) {
		return
	}
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)
	r.processPointer(0, sx, sy, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), l)
	r.processTouchPointers(l)
	r.detectPinch(l)
	if _, wy := ebiten.Wheel(); wy != 0 {
		r.wheel(wy, sx, sy, l)
	}
}

// processTouchPointers handles touch input (pointers 1-9).
func (r *Recognizer) processTouchPointers(l GestureListener) {
	touchIDs := ebiten.AppendTouchIDs(r.prevTouchIDs[:0])
	r.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := r.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		r.processPointer(slot, float64(tx), float64(ty), true, l)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && !activeSlots[i] {
			ps := &r.pointers[i]
			if ps.down {
				r.processPointer(i, ps.lastX, ps.lastY, false, l)
			}
			r.touchUsed[i] = false
			r.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (r *Recognizer) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && r.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !r.touchUsed[i] {
			r.touchUsed[i] = true
			r.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (r *Recognizer) downCount() int {
	n := 0
	for i := range r.pointers {
		if r.pointers[i].down {
			n++
		}
	}
	return n
}

// processPointer runs the gesture state machine for a single pointer.
func (r *Recognizer) processPointer(id int, x, y float64, pressed bool, l GestureListener) {
	ps := &r.pointers[id]
	now := r.clock.Now()

	switch {
	case pressed && !ps.down:
		*ps = pointerState{
			down:    true,
			startX:  x,
			startY:  y,
			lastX:   x,
			lastY:   y,
			samples: ps.samples[:0],
		}
		ps.addSample(now, x, y)

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		ps.addSample(now, x, y)
		if ps.pinched {
			ps.lastX, ps.lastY = x, y
			return
		}
		if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > r.DragDeadZone {
			ps.dragging = true
		}
		if ps.dragging {
			l.OnScroll(ScrollEvent{
				DistanceX: ps.lastX - x,
				DistanceY: ps.lastY - y,
				Pointers:  r.downCount(),
			})
		}
		ps.lastX, ps.lastY = x, y

	case !pressed && ps.down:
		ps.addSample(now, x, y)
		pointers := r.downCount()
		switch {
		case ps.pinched:
			r.endPinch(l)
		case ps.dragging:
			vx, vy := ps.velocity(now)
			if vx != 0 || vy != 0 {
				l.OnFling(FlingEvent{
					StartX: ps.startX, StartY: ps.startY,
					EndX: x, EndY: y,
					VelocityX: vx, VelocityY: vy,
					Pointers: pointers,
				})
			}
		default:
			r.tap(now, x, y, l)
		}
		ps.down = false
		ps.dragging = false
		ps.pinched = false
		if r.downCount() == 0 {
			l.OnTouchUp()
		}
	}
}

// tap reports a double-tap when a tap lands close enough, soon enough, after
// the previous one.
func (r *Recognizer) tap(now time.Time, x, y float64, l GestureListener) {
	if r.hasTap && now.Sub(r.tapAt) <= r.DoubleTapWindow &&
		math.Hypot(x-r.tapX, y-r.tapY) <= r.DoubleTapSlop {
		r.hasTap = false
		l.OnDoubleTap(TapEvent{X: x, Y: y})
		return
	}
	r.hasTap = true
	r.tapAt = now
	r.tapX, r.tapY = x, y
}

// --- Pinch detection ---

func (r *Recognizer) detectPinch(l GestureListener) {
	var count, p0, p1 int
	for i := 1; i < maxPointers; i++ {
		if r.pointers[i].down {
			if count == 0 {
				p0 = i
			} else if count == 1 {
				p1 = i
			}
			count++
		}
	}

	if count != 2 {
		r.endPinch(l)
		return
	}

	ps0 := &r.pointers[p0]
	ps1 := &r.pointers[p1]
	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)

	// Pinch pointers never scroll, fling or tap.
	ps0.dragging, ps0.pinched = false, true
	ps1.dragging, ps1.pinched = false, true
	r.hasTap = false

	if !r.pinch.active {
		r.pinch = pinchState{active: true, pointer0: p0, pointer1: p1, prevDist: dist}
		l.OnScaleBegin()
		return
	}
	if p0 != r.pinch.pointer0 || p1 != r.pinch.pointer1 {
		// A different pair of fingers; restart the span from here.
		r.pinch.pointer0, r.pinch.pointer1, r.pinch.prevDist = p0, p1, dist
		return
	}
	if r.pinch.prevDist > 0 && dist > 0 && dist != r.pinch.prevDist {
		l.OnScale(ScaleEvent{Factor: dist / r.pinch.prevDist, FocusX: cx, FocusY: cy})
	}
	r.pinch.prevDist = dist
}

func (r *Recognizer) endPinch(l GestureListener) {
	if r.pinch.active {
		r.pinch.active = false
		l.OnScaleEnd()
	}
}

// wheel zooms about the cursor by WheelStep per notch, as a complete pinch.
func (r *Recognizer) wheel(notches, x, y float64, l GestureListener) {
	l.OnScaleBegin()
	l.OnScale(ScaleEvent{Factor: math.Pow(r.WheelStep, notches), FocusX: x, FocusY: y})
	l.OnScaleEnd()
	l.OnTouchUp()
}
