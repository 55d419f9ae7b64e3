package zoomview

// syntheticPointerEvent represents a single injected pointer event in
// viewport pixels, the same space real input arrives in.
type syntheticPointerEvent struct {
	pointer int
	x, y    float64
	pressed bool
}

// Pointer slots used by injected gestures. A single pointer behaves like the
// mouse; pinches use two touch slots.
const (
	injectMouse  = 0
	injectTouchA = 1
	injectTouchB = 2
)

func (r *Recognizer) injectFrame(events ...syntheticPointerEvent) {
	r.injectQueue = append(r.injectQueue, events)
}

// InjectPress queues a pointer press at (x, y). Each Inject call that adds
// frames is consumed one frame per Update.
func (r *Recognizer) InjectPress(x, y float64) {
	r.injectFrame(syntheticPointerEvent{pointer: injectMouse, x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move to (x, y) with the pointer held down. Use
// this between InjectPress and InjectRelease to simulate a drag.
func (r *Recognizer) InjectMove(x, y float64) {
	r.injectFrame(syntheticPointerEvent{pointer: injectMouse, x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (r *Recognizer) InjectRelease(x, y float64) {
	r.injectFrame(syntheticPointerEvent{pointer: injectMouse, x: x, y: y})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (r *Recognizer) InjectTap(x, y float64) {
	r.InjectPress(x, y)
	r.InjectRelease(x, y)
}

// InjectDoubleTap queues two taps at (x, y). Consumes four frames, which at
// the default tick rate fits inside the double-tap window.
func (r *Recognizer) InjectDoubleTap(x, y float64) {
	r.InjectTap(x, y)
	r.InjectTap(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release). A short drag released fast enough
// becomes a fling.
func (r *Recognizer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// InjectPinch queues a horizontal two-finger pinch centered on (cx, cy)
// whose finger span goes from fromSpan to toSpan pixels. The sequence
// consumes frames+1 frames: a press of both fingers, frames-1 moves, and a
// release of both fingers. Minimum frames is 2.
func (r *Recognizer) InjectPinch(cx, cy, fromSpan, toSpan float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		span := fromSpan + (toSpan-fromSpan)*float64(i)/float64(frames-1)
		r.injectFrame(
			syntheticPointerEvent{pointer: injectTouchA, x: cx - span/2, y: cy, pressed: true},
			syntheticPointerEvent{pointer: injectTouchB, x: cx + span/2, y: cy, pressed: true},
		)
	}
	r.injectFrame(
		syntheticPointerEvent{pointer: injectTouchA, x: cx - toSpan/2, y: cy},
		syntheticPointerEvent{pointer: injectTouchB, x: cx + toSpan/2, y: cy},
	)
}

// Injecting reports whether injected frames are still queued.
func (r *Recognizer) Injecting() bool {
	return len(r.injectQueue) > 0
}

// processInjectedInput pops one frame of injected events and feeds it
// through the pointer state machine and pinch detection. Returns true if a
// frame was consumed (real input should be skipped).
func (r *Recognizer) processInjectedInput(l GestureListener) bool {
	if len(r.injectQueue) == 0 {
		return false
	}
	frame := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue[len(r.injectQueue)-1] = nil
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]

	for _, evt := range frame {
		r.processPointer(evt.pointer, evt.x, evt.y, evt.pressed, l)
	}
	r.detectPinch(l)
	return true
}
