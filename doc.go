// Package zoomview is a pan/zoom image viewer for [Ebitengine].
//
// A [View] shows one bitmap on a GPU surface and lets the user pinch, drag,
// fling and double-tap around it. Zooming past the allowed range is
// elastic: the image follows the fingers a little beyond the limits and
// eases back when they lift.
//
// # Quick start
//
//	img, err := zoomview.LoadImage("photo.jpg", zoomview.MaxTextureSize)
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := zoomview.NewView(zoomview.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	v.SetImage(img)
//	if err := zoomview.Run(v, zoomview.RunConfig{Title: "Viewer"}); err != nil {
//		log.Fatal(err)
//	}
//
// View implements [ebiten.Game], so it can also be driven by your own loop.
// Call [View.Start] to run the animation ticker.
//
// # Coordinates
//
// The transform works in normalized space: both axes span [-1, 1] across
// the viewport with +Y up. The image is letterboxed into that square by
// [Transform.Bounds], then scaled and translated. Translation is always
// constrained so the image covers the viewport on every axis it fills.
//
// # Threading
//
// All state belongs to the goroutine that calls [View.Update] (the ebiten
// game loop). Gesture methods, [View.SetImage], [View.RequestBitmap] and
// [View.ZoomTo] may be called from any goroutine; they post work that runs
// on the next Update. Tweens are driven by a ticker goroutine whose ticks
// carry a generation, so a tick from a cancelled tween does nothing.
//
// # Input
//
// A [Recognizer] turns mouse, touch and wheel input into the gestures the
// View consumes. Synthetic input can be queued with [Recognizer.InjectTap],
// [Recognizer.InjectDrag], [Recognizer.InjectPinch] and friends, or
// scripted with [LoadTestScript] for visual regression runs.
//
// [Ebitengine]: https://ebitengine.org
package zoomview
