// Package templates loads and saves the reference images for the two result
// screens. A Set is immutable; reloads build a new Set.
package templates

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // BMP templates
	_ "golang.org/x/image/webp" // WebP templates

	"github.com/soocke/result-watch-go/domain/capture"
	"github.com/soocke/result-watch-go/domain/result"
)

const (
	NameSuccess = "success"
	NameFail    = "fail"

	// NearDuplicateDistance is the perceptual hash distance at or below which
	// the two templates are considered too similar to tell apart.
	NearDuplicateDistance = 6
)

// extensions are tried in order; the first existing file wins.
var extensions = []string{".png", ".bmp", ".webp", ".jpg", ".jpeg"}

// ErrUnavailable is matched by every template loading failure.
var ErrUnavailable = errors.New("templates unavailable")

// UnavailableError is returned when a template is missing, unreadable or unusable.
type UnavailableError struct {
	Name string
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("templates unavailable: %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) hold for any UnavailableError.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Set is one loaded pair of templates.
type Set struct {
	Success  *capture.Template
	Fail     *capture.Template
	Dir      string
	LoadedAt time.Time
	Distance int // perceptual hash distance between the two, -1 if unknown
}

// For returns the template of an outcome.
func (s *Set) For(o result.Outcome) *capture.Template {
	if o == result.OutcomeFail {
		return s.Fail
	}
	return s.Success
}

// Fits reports whether both templates align inside a w x h frame.
func (s *Set) Fits(w, h int) bool {
	return s != nil && s.Success.Fits(w, h) && s.Fail.Fits(w, h)
}

// Store reads templates from a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the template directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file used for name: the first existing candidate, or the
// .png path when none exists.
func (s *Store) Path(name string) string {
	for _, ext := range extensions {
		p := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(s.dir, name+extensions[0])
}

// Load reads both templates. Either both load or an *UnavailableError is
// returned and nothing is produced.
func (s *Store) Load() (*Set, error) {
	succImg, succ, err := s.loadOne(NameSuccess)
	if err != nil {
		return nil, err
	}
	failImg, fail, err := s.loadOne(NameFail)
	if err != nil {
		return nil, err
	}
	set := &Set{Success: succ, Fail: fail, Dir: s.dir, LoadedAt: time.Now(), Distance: -1}
	if d, err := Distance(succImg, failImg); err == nil {
		set.Distance = d
		if d <= NearDuplicateDistance && s.logger != nil {
			s.logger.Warn("templates nearly identical", "distance", d, "dir", s.dir)
		}
	}
	if s.logger != nil {
		s.logger.Info("templates loaded", "dir", s.dir,
			"success", fmt.Sprintf("%dx%d", succ.Plane.W, succ.Plane.H),
			"fail", fmt.Sprintf("%dx%d", fail.Plane.W, fail.Plane.H))
	}
	return set, nil
}

func (s *Store) loadOne(name string) (image.Image, *capture.Template, error) {
	path := s.Path(name)
	img, err := imaging.Open(path)
	if err != nil {
		return nil, nil, &UnavailableError{Name: name, Path: path, Err: err}
	}
	tmpl, err := capture.NewTemplate(name, capture.Grayscale(img))
	if err != nil {
		return nil, nil, &UnavailableError{Name: name, Path: path, Err: err}
	}
	return img, tmpl, nil
}

// Save writes img as the PNG template for name, creating the directory if
// needed. It returns the written path.
func (s *Store) Save(name string, img image.Image) (string, error) {
	if name != NameSuccess && name != NameFail {
		return "", errors.Errorf("templates: unknown template %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "templates: create dir")
	}
	path := filepath.Join(s.dir, name+extensions[0])
	if err := imaging.Save(img, path); err != nil {
		return "", errors.Wrapf(err, "templates: save %s", path)
	}
	if s.logger != nil {
		s.logger.Info("template saved", "name", name, "path", path)
	}
	return path, nil
}

// Other returns the name of the opposite template.
func Other(name string) string {
	if name == NameSuccess {
		return NameFail
	}
	return NameSuccess
}

// CompareSaved returns the perceptual distance between the stored success and
// fail images. Both must exist.
func (s *Store) CompareSaved() (int, error) {
	a, err := imaging.Open(s.Path(NameSuccess))
	if err != nil {
		return 0, &UnavailableError{Name: NameSuccess, Path: s.Path(NameSuccess), Err: err}
	}
	b, err := imaging.Open(s.Path(NameFail))
	if err != nil {
		return 0, &UnavailableError{Name: NameFail, Path: s.Path(NameFail), Err: err}
	}
	return Distance(a, b)
}

// Distance is the perceptual hash distance between two images; 0 means
// indistinguishable.
func Distance(a, b image.Image) (int, error) {
	ha, err := goimagehash.PerceptionHash(a)
	if err != nil {
		return 0, errors.Wrap(err, "templates: hash")
	}
	hb, err := goimagehash.PerceptionHash(b)
	if err != nil {
		return 0, errors.Wrap(err, "templates: hash")
	}
	return ha.Distance(hb)
}

// Capture grabs roi from src once and saves it as the template for name.
// When the other template exists and looks nearly identical a warning is
// logged, since detection could not tell the two apart.
func (s *Store) Capture(src capture.Source, roi image.Rectangle, name string) (string, error) {
	if err := capture.CheckRegion(roi); err != nil {
		return "", err
	}
	frame, err := src.Capture(roi)
	if err != nil {
		return "", errors.Wrap(err, "templates: capture")
	}
	if err := capture.CheckFrame(frame, roi); err != nil {
		return "", err
	}
	// Pooled frames are reused after Recycle; save a private copy.
	img := imaging.Clone(frame)
	if rc, ok := src.(capture.Recycler); ok {
		rc.Recycle(frame)
	}
	path, err := s.Save(name, img)
	if err != nil {
		return "", err
	}
	if d, err := s.CompareSaved(); err == nil && d <= NearDuplicateDistance && s.logger != nil {
		s.logger.Warn("success and fail templates look nearly identical", "distance", d)
	}
	return path, nil
}
