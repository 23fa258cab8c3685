package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
)

func TestPreprocess_KeepsSizeAndFlatness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 90, 90, 90, 255
	}
	p := Preprocess(img)
	if p.W != 20 || p.H != 10 || len(p.Pix) != 200 {
		t.Fatalf("unexpected plane size %dx%d len=%d", p.W, p.H, len(p.Pix))
	}
	for i, v := range p.Pix {
		if v != 90 {
			t.Fatalf("pixel %d changed on flat input: %v", i, v)
		}
	}
}

func TestPreprocess_BlurSpreadsSinglePixel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+3] = 255
	}
	img.SetRGBA(2, 2, color.RGBA{255, 255, 255, 255})
	p := Preprocess(img)
	center, side, corner := p.At(2, 2), p.At(1, 2), p.At(1, 1)
	if !(center > side && side > corner && corner > 0) {
		t.Fatalf("expected gaussian falloff, got center=%v side=%v corner=%v", center, side, corner)
	}
	if p.At(0, 0) != 0 {
		t.Fatalf("blur leaked beyond 3x3: %v", p.At(0, 0))
	}
}

func TestGrayscale_UsesLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(2, 0, color.RGBA{0, 0, 255, 255})
	p := Grayscale(img)
	if !(p.At(1, 0) > p.At(0, 0) && p.At(0, 0) > p.At(2, 0)) {
		t.Fatalf("expected green > red > blue luma, got %v", p.Pix)
	}
}

func TestCheckFrame(t *testing.T) {
	r := image.Rect(100, 100, 110, 105)
	if err := CheckFrame(image.NewRGBA(image.Rect(0, 0, 10, 5)), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckFrame(image.NewRGBA(image.Rect(0, 0, 9, 5)), r); !errors.Is(err, ErrFrameSize) {
		t.Fatalf("expected ErrFrameSize, got %v", err)
	}
	if err := CheckFrame(nil, r); !errors.Is(err, ErrFrameSize) {
		t.Fatalf("expected ErrFrameSize for nil, got %v", err)
	}
}

func TestCheckRegion(t *testing.T) {
	if err := CheckRegion(image.Rect(0, 0, 0, 10)); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got %v", err)
	}
	if err := CheckRegion(image.Rect(150, 150, 650, 310)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFramePool_ReusesBackingSlice(t *testing.T) {
	a := acquireFrame(image.Rect(10, 10, 30, 20))
	if a.Bounds() != image.Rect(0, 0, 20, 10) || len(a.Pix) != 20*10*4 || a.Stride != 80 {
		t.Fatalf("unexpected frame geometry: %v len=%d stride=%d", a.Bounds(), len(a.Pix), a.Stride)
	}
	recycleFrame(a)
	b := acquireFrame(image.Rect(0, 0, 10, 10))
	if len(b.Pix) != 10*10*4 || b.Stride != 40 {
		t.Fatalf("reused frame not resized: len=%d stride=%d", len(b.Pix), b.Stride)
	}
	empty := acquireFrame(image.Rect(0, 0, 0, 5))
	if len(empty.Pix) != 0 {
		t.Fatalf("expected empty frame")
	}
}
