package capture

import (
	"image"
	"sync"
)

// Capturing the ROI every tick would otherwise allocate a fresh RGBA backing
// slice per frame. Sources that fill caller-owned buffers take them from this
// pool; the detector hands each frame back through Recycler after scoring.
// Consumers that never recycle degrade to plain allocation.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns an RGBA image with origin (0,0) sized to rect. Pix
// length exactly matches w*h*4 and Stride is w*4.
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	bounds := image.Rect(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: bounds}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: bounds}
	}
	img.Stride = w * 4
	img.Rect = bounds
	img.Pix = img.Pix[:needed]
	return img
}

// recycleFrame returns the frame to the pool. The caller must not touch it afterwards.
func recycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
