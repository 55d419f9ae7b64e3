package zoomview

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-zoom", "after-zoom"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	v, _, _ := newTestView(t)
	v.Screenshot("a")
	v.Screenshot("b")
	v.Screenshot("c")
	v.Flush()
	if len(v.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(v.screenshotQueue))
	}
	if v.screenshotQueue[0] != "a" || v.screenshotQueue[1] != "b" || v.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", v.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	v, _, _ := newTestView(t)
	if v.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", v.ScreenshotDir, "screenshots")
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 255, // opaque: unchanged
		64, 32, 0, 128, // half alpha: doubled
		0, 0, 0, 0, // transparent: unchanged
	}
	img := unpremultiply(pixels, 3, 1)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{100, 50, 0, 255}) {
		t.Errorf("opaque = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{127, 63, 0, 128}) {
		t.Errorf("half alpha = %v", got)
	}
	if got := img.NRGBAAt(2, 0); got != (color.NRGBA{}) {
		t.Errorf("transparent = %v", got)
	}
}

func TestExportBitmapWritesPNG(t *testing.T) {
	v, _, _ := newTestView(t)
	v.ScreenshotDir = t.TempDir()
	v.SetImage(solidImage(6, 3, color.RGBA{10, 20, 30, 255}))
	v.ExportBitmap("export me")
	v.Flush()

	matches, err := filepath.Glob(filepath.Join(v.ScreenshotDir, "*_export_me.png"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("exported files = %v (err %v), want one", matches, err)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Errorf("exported size = %v, want 6x3", b)
	}
}
