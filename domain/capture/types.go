package capture

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRegion reports an empty or off-screen capture rectangle.
	ErrInvalidRegion = errors.New("capture: invalid region")
	// ErrFrameSize reports a frame whose dimensions differ from the requested rectangle.
	ErrFrameSize = errors.New("capture: frame size mismatch")
	// ErrTemplateTooLarge reports a template that cannot be aligned inside the frame.
	ErrTemplateTooLarge = errors.New("capture: template larger than frame")
	// ErrFlatTemplate reports a template without contrast, for which correlation is undefined.
	ErrFlatTemplate = errors.New("capture: template has no contrast")
)

// Source supplies a cropped region of the screen.
type Source interface {
	Capture(r image.Rectangle) (*image.RGBA, error)
}

// Recycler is implemented by sources that reuse frame buffers. The caller
// hands a frame back once it no longer reads from it.
type Recycler interface {
	Recycle(*image.RGBA)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(r image.Rectangle) (*image.RGBA, error)

func (f SourceFunc) Capture(r image.Rectangle) (*image.RGBA, error) { return f(r) }

// CheckRegion validates a capture rectangle before any capture is attempted.
func CheckRegion(r image.Rectangle) error {
	if r.Empty() || r.Dx() <= 0 || r.Dy() <= 0 {
		return errors.Wrapf(ErrInvalidRegion, "rect=%v", r)
	}
	return nil
}

// CheckFrame verifies a captured frame matches the requested rectangle size.
func CheckFrame(img *image.RGBA, r image.Rectangle) error {
	if img == nil {
		return errors.Wrap(ErrFrameSize, "nil frame")
	}
	b := img.Bounds()
	if b.Dx() != r.Dx() || b.Dy() != r.Dy() {
		return errors.Wrapf(ErrFrameSize, "got %dx%d want %dx%d", b.Dx(), b.Dy(), r.Dx(), r.Dy())
	}
	return nil
}
