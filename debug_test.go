package zoomview

import (
	"strings"
	"testing"
	"time"
)

func TestHUDTextShowsZoomAndCenter(t *testing.T) {
	v, _, _ := newTestView(t)
	v.Transform().SetScale(2)
	v.Transform().SetTranslation(0.5, -0.25)

	got := v.hudText(500, 500)
	if !strings.Contains(got, "zoom: 2.00x") {
		t.Errorf("hud text %q missing zoom", got)
	}
	if !strings.Contains(got, "center: (0.50, -0.25)") {
		t.Errorf("hud text %q missing center", got)
	}
	if !strings.Contains(got, "pixel: ") {
		t.Errorf("hud text %q missing pixel under the cursor", got)
	}
}

func TestHUDTextOutsideImage(t *testing.T) {
	v, err := NewView(Config{Program: &recordingProgram{}})
	if err != nil {
		t.Fatal(err)
	}
	// No viewport or image: no pixel line.
	if got := v.hudText(10, 10); strings.Contains(got, "pixel") {
		t.Errorf("hud text %q should not report a pixel", got)
	}
}

func TestDebugLogDisabled(t *testing.T) {
	v, _, _ := newTestView(t)
	// Must not touch the logger while debug mode is off.
	v.log = nil
	v.debugLog(frameStats{renderTime: time.Millisecond})
}

func TestSetDebugMode(t *testing.T) {
	v, _, _ := newTestView(t)
	v.SetDebugMode(true)
	v.Flush()
	if !v.debug {
		t.Fatal("debug mode not enabled")
	}
	v.debugLog(frameStats{renderTime: time.Millisecond, scale: 1, queued: 2})
	v.SetDebugMode(false)
	v.Flush()
	if v.debug {
		t.Error("debug mode not disabled")
	}
}
