//go:build !windows

package capture

import (
	"image"

	"github.com/pkg/errors"
	"github.com/vova616/screenshot"
)

type screenSource struct{}

// NewScreenSource returns a frame source backed by the screenshot library.
func NewScreenSource() Source { return screenSource{} }

// Capture grabs r from the primary screen.
func (screenSource) Capture(r image.Rectangle) (*image.RGBA, error) {
	if err := CheckRegion(r); err != nil {
		return nil, err
	}
	if screen, err := screenshot.ScreenRect(); err == nil && !r.In(screen) {
		return nil, errors.Wrapf(ErrInvalidRegion, "rect=%v outside screen=%v", r, screen)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, errors.Wrap(err, "capture: screenshot")
	}
	return img, nil
}
