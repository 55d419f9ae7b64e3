package zoomview

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// frameStats holds per-frame render metrics.
// Only populated when debug mode is on.
type frameStats struct {
	renderTime time.Duration
	frameGap   time.Duration
	scale      float64
	center     Vec2
	queued     int
	animating  bool
}

// debugLog writes render stats at debug level.
func (v *View) debugLog(stats frameStats) {
	if !v.debug {
		return
	}
	v.log.Debugf("render: %v | since last frame: %v | queued: %d | animating: %t",
		stats.renderTime, stats.frameGap, stats.queued, stats.animating)
	v.log.Debugf("scale: %.3f | center: (%.3f, %.3f)", stats.scale, stats.center.X, stats.center.Y)
}

var hudBackground = color.RGBA{0, 0, 0, 128}

// hudText formats the overlay for the cursor at (cx, cy).
func (v *View) hudText(cx, cy int) string {
	tr := v.transform
	t := tr.Translation()
	s := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nzoom: %.2fx  center: (%.2f, %.2f)",
		ebiten.ActualFPS(), ebiten.ActualTPS(), tr.Scale(), t.X, t.Y)
	if ix, iy, ok := tr.ImagePixelAt(float64(cx), float64(cy)); ok {
		s += fmt.Sprintf("\npixel: %d, %d", ix, iy)
	}
	return s
}

// drawHUD overlays frame rate, zoom and the image pixel under the cursor.
// 240x48 fits the three lines of DebugPrint text.
func (v *View) drawHUD(screen *ebiten.Image) {
	if v.hudImage == nil {
		v.hudImage = ebiten.NewImage(240, 48)
	}
	cx, cy := ebiten.CursorPosition()
	v.hudImage.Fill(hudBackground)
	ebitenutil.DebugPrint(v.hudImage, v.hudText(cx, cy))
	screen.DrawImage(v.hudImage, nil)
}
