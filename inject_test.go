package zoomview

import "testing"

func TestInjectTap(t *testing.T) {
	r, _ := newTestRecognizer()
	l := &recordingListener{}

	r.InjectTap(50, 50)
	if len(r.injectQueue) != 2 {
		t.Fatalf("expected 2 queued frames, got %d", len(r.injectQueue))
	}

	// Frame 1: press
	r.processInjectedInput(l)
	if len(r.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining frame after frame 1, got %d", len(r.injectQueue))
	}
	if len(l.events) != 0 {
		t.Errorf("press produced events: %v", l)
	}

	// Frame 2: release
	r.processInjectedInput(l)
	if r.Injecting() {
		t.Fatalf("expected 0 remaining frames, got %d", len(r.injectQueue))
	}
	if l.String() != "touchup" {
		t.Errorf("events = %q, want %q", l.String(), "touchup")
	}
}

func TestInjectDragFrames(t *testing.T) {
	r := NewRecognizer()
	r.InjectDrag(0, 0, 100, 50, 5)
	if len(r.injectQueue) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(r.injectQueue))
	}
	first := r.injectQueue[0][0]
	if !first.pressed || first.x != 0 || first.y != 0 {
		t.Errorf("first frame = %+v, want press at origin", first)
	}
	mid := r.injectQueue[2][0]
	if !mid.pressed || mid.x != 50 || mid.y != 25 {
		t.Errorf("middle frame = %+v, want move to (50, 25)", mid)
	}
	last := r.injectQueue[4][0]
	if last.pressed || last.x != 100 || last.y != 50 {
		t.Errorf("last frame = %+v, want release at (100, 50)", last)
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	r := NewRecognizer()
	r.InjectDrag(0, 0, 100, 100, 1)
	if len(r.injectQueue) != 2 {
		t.Fatalf("expected 2 frames (press + release), got %d", len(r.injectQueue))
	}
}

func TestInjectPinchFrames(t *testing.T) {
	r := NewRecognizer()
	r.InjectPinch(200, 100, 40, 80, 3)
	if len(r.injectQueue) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(r.injectQueue))
	}
	for i, frame := range r.injectQueue {
		if len(frame) != 2 {
			t.Fatalf("frame %d has %d events, want 2", i, len(frame))
		}
		if frame[0].pointer != injectTouchA || frame[1].pointer != injectTouchB {
			t.Errorf("frame %d pointers = %d, %d", i, frame[0].pointer, frame[1].pointer)
		}
	}
	// Spans 40, 60, 80 around x=200.
	if a, b := r.injectQueue[1][0], r.injectQueue[1][1]; a.x != 170 || b.x != 230 {
		t.Errorf("middle span = %v..%v, want 170..230", a.x, b.x)
	}
	if rel := r.injectQueue[3]; rel[0].pressed || rel[1].pressed {
		t.Error("last frame should release both fingers")
	}
}

func TestInjectPinchMinFrames(t *testing.T) {
	r := NewRecognizer()
	r.InjectPinch(0, 0, 10, 20, 0)
	if len(r.injectQueue) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(r.injectQueue))
	}
}

func TestInjectQueueOrder(t *testing.T) {
	r := NewRecognizer()
	r.InjectPress(1, 1)
	r.InjectMove(2, 2)
	r.InjectRelease(3, 3)
	for i, want := range []float64{1, 2, 3} {
		if got := r.injectQueue[i][0].x; got != want {
			t.Errorf("frame %d x = %v, want %v", i, got, want)
		}
	}
}

func TestProcessInjectedInputEmpty(t *testing.T) {
	r := NewRecognizer()
	l := &recordingListener{}
	if r.processInjectedInput(l) {
		t.Error("processInjectedInput should report false with an empty queue")
	}
	if len(l.events) != 0 {
		t.Errorf("empty queue produced events: %v", l)
	}
}
