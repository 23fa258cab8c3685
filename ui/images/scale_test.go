package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestScaleToFit_PreservesAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 500, 160))
	out := ScaleToFit(src, 200, 200)
	b := out.Bounds()
	if b.Dx() != 200 || b.Dy() != 64 {
		t.Fatalf("expected 200x64, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestScaleToFit_SmallImageUnchanged(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 20))
	if out := ScaleToFit(src, 200, 200); out != image.Image(src) {
		t.Fatalf("expected the original image back")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestEncodePNG_Decodes(t *testing.T) {
	data := EncodePNG(Placeholder(8, 4))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
}
