package templates

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/domain/capture"
	"github.com/soocke/result-watch-go/domain/result"
)

func stripes(w, h, period int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(40)
			if (x/period)%2 == 0 {
				v = 220
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func checker(w, h, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(30)
			if (x/cell+y/cell)%2 == 0 {
				v = 200
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func TestStore_SaveThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	s := NewStore(dir, nil)
	if _, err := s.Save(NameSuccess, stripes(40, 20, 4)); err != nil {
		t.Fatalf("save success: %v", err)
	}
	if _, err := s.Save(NameFail, checker(30, 15, 5)); err != nil {
		t.Fatalf("save fail: %v", err)
	}
	set, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Success.Plane.W != 40 || set.Success.Plane.H != 20 {
		t.Fatalf("unexpected success size %dx%d", set.Success.Plane.W, set.Success.Plane.H)
	}
	if set.For(result.OutcomeFail) != set.Fail || set.For(result.OutcomeSuccess) != set.Success {
		t.Fatalf("For returned the wrong template")
	}
	if !set.Fits(40, 20) || set.Fits(39, 20) {
		t.Fatalf("Fits must require both templates to fit")
	}
	if set.Dir != dir {
		t.Fatalf("expected dir %q got %q", dir, set.Dir)
	}
}

func TestStore_MissingTemplateIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	if _, err := s.Save(NameSuccess, stripes(20, 10, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	set, err := s.Load()
	if set != nil {
		t.Fatalf("expected no set on partial load")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Name != NameFail {
		t.Fatalf("expected UnavailableError for fail, got %#v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying not-exist error, got %v", err)
	}
}

func TestStore_FlatTemplateIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	flat := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if _, err := s.Save(NameSuccess, flat); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(NameFail, checker(10, 10, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := s.Load()
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, capture.ErrFlatTemplate) {
		t.Fatalf("expected unavailable flat template, got %v", err)
	}
}

func TestStore_CorruptFileIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "success.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(checker(10, 10, 2), filepath.Join(dir, "fail.png")); err != nil {
		t.Fatal(err)
	}
	_, err := NewStore(dir, nil).Load()
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Name != NameSuccess {
		t.Fatalf("expected UnavailableError for success, got %v", err)
	}
}

func TestStore_PathFallsBackToOtherFormats(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	if got := s.Path(NameFail); got != filepath.Join(dir, "fail.png") {
		t.Fatalf("expected png default, got %s", got)
	}
	if err := imaging.Save(checker(10, 10, 2), filepath.Join(dir, "fail.bmp")); err != nil {
		t.Fatal(err)
	}
	if got := s.Path(NameFail); got != filepath.Join(dir, "fail.bmp") {
		t.Fatalf("expected bmp fallback, got %s", got)
	}
}

func TestStore_SaveRejectsUnknownName(t *testing.T) {
	if _, err := NewStore(t.TempDir(), nil).Save("victory", checker(4, 4, 1)); err == nil {
		t.Fatalf("expected error for unknown template name")
	}
}

func TestDistance_IdenticalIsZero(t *testing.T) {
	img := checker(64, 64, 8)
	d, err := Distance(img, img)
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if d != 0 {
		t.Fatalf("expected 0 for identical images, got %d", d)
	}
}

func TestOther(t *testing.T) {
	if Other(NameSuccess) != NameFail || Other(NameFail) != NameSuccess {
		t.Fatalf("Other must swap names")
	}
}

type frameSource struct {
	img      *image.RGBA
	recycled int
}

func (f *frameSource) Capture(r image.Rectangle) (*image.RGBA, error) { return f.img, nil }
func (f *frameSource) Recycle(*image.RGBA)                            { f.recycled++ }

func TestStore_CaptureSavesRegion(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)
	src := &frameSource{img: image.NewRGBA(image.Rect(0, 0, 30, 15))}
	copy(src.img.Pix, imaging.Clone(checker(30, 15, 3)).Pix)

	path, err := s.Capture(src, image.Rect(100, 100, 130, 115), NameFail)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if path != filepath.Join(dir, "fail.png") || src.recycled != 1 {
		t.Fatalf("unexpected path %s recycled=%d", path, src.recycled)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 15 {
		t.Fatalf("unexpected saved size %v", img.Bounds())
	}
}

func TestStore_CaptureRejectsWrongFrame(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	src := &frameSource{img: image.NewRGBA(image.Rect(0, 0, 10, 10))}
	if _, err := s.Capture(src, image.Rect(0, 0, 20, 20), NameSuccess); !errors.Is(err, capture.ErrFrameSize) {
		t.Fatalf("expected ErrFrameSize, got %v", err)
	}
	if _, err := s.Capture(src, image.Rect(0, 0, 0, 20), NameSuccess); !errors.Is(err, capture.ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion, got %v", err)
	}
}
