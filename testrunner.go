package zoomview

import (
	"encoding/json"
	"fmt"
	"time"
)

// testStep represents a single action in a test script. Pointer coordinates
// are viewport pixels; zoom centers are normalized.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	FromSpan float64 `json:"fromSpan,omitempty"`
	ToSpan   float64 `json:"toSpan,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Millis   int     `json:"ms,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// flingFrames is the default length of a scripted fling: short enough that
// the release velocity clears the default fling threshold.
const flingFrames = 3

var knownActions = map[string]bool{
	"screenshot": true,
	"readback":   true,
	"tap":        true,
	"doubletap":  true,
	"drag":       true,
	"fling":      true,
	"pinch":      true,
	"zoom":       true,
	"wait":       true,
}

// TestRunner sequences injected gestures, zooms and screenshots across
// frames for automated visual testing. Attach to a View via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a View via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the view. Its steps run from
// Update ahead of input polling, one action per frame.
func (v *View) SetTestRunner(runner *TestRunner) {
	v.runner = runner
	if runner != nil && v.recognizer == nil {
		v.recognizer = NewRecognizer()
	}
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from View.Update.
func (r *TestRunner) step(v *View) {
	if r.done {
		return
	}
	rec := v.recognizer
	// Wait for pending injections and zooms to finish before advancing.
	if rec.Injecting() || v.Animating() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		v.Screenshot(st.Label)
	case "readback":
		v.ExportBitmap(st.Label)
	case "tap":
		rec.InjectTap(st.X, st.Y)
	case "doubletap":
		rec.InjectDoubleTap(st.X, st.Y)
	case "drag":
		rec.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "fling":
		frames := st.Frames
		if frames <= 0 {
			frames = flingFrames
		}
		rec.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "pinch":
		rec.InjectPinch(st.X, st.Y, st.FromSpan, st.ToSpan, st.Frames)
	case "zoom":
		v.ZoomTo(st.Scale, st.X, st.Y, time.Duration(st.Millis)*time.Millisecond)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !rec.Injecting() && st.Action != "zoom" {
		r.done = true
	}
}
