package capture

import (
	"math"

	"github.com/pkg/errors"
)

// Template caches a grayscale reference image with its zero-mean pixels so
// that scoring a frame only needs one multiply-add pass per alignment.
type Template struct {
	Name  string
	Plane Plane
	zero  []float64 // pixel - mean
	energ float64   // sum of squared zero-mean pixels
}

// NewTemplate precomputes the statistics of p. Templates without contrast are rejected.
func NewTemplate(name string, p Plane) (*Template, error) {
	if p.Empty() {
		return nil, errors.Wrapf(ErrFlatTemplate, "%s: empty", name)
	}
	n := p.W * p.H
	var sum float64
	for _, v := range p.Pix[:n] {
		sum += float64(v)
	}
	mean := sum / float64(n)
	zero := make([]float64, n)
	var energ float64
	for i, v := range p.Pix[:n] {
		d := float64(v) - mean
		zero[i] = d
		energ += d * d
	}
	if energ <= 1e-9 {
		return nil, errors.Wrapf(ErrFlatTemplate, "%s", name)
	}
	return &Template{Name: name, Plane: p, zero: zero, energ: energ}, nil
}

// Fits reports whether t can be aligned inside a w x h frame.
func (t *Template) Fits(w, h int) bool {
	return t != nil && t.Plane.W <= w && t.Plane.H <= h
}

// Cost is the number of multiply-adds Score spends on t in a w x h frame.
// It grows with the number of alignments, so small templates in a large
// frame are the expensive case.
func (t *Template) Cost(w, h int) int64 {
	if !t.Fits(w, h) {
		return 0
	}
	tw, th := int64(t.Plane.W), int64(t.Plane.H)
	return (int64(w)-tw+1)*(int64(h)-th+1)*tw*th
}

// integral holds summed-area tables of a frame and of its squares. Row and
// column zero are padding so window sums need no bounds checks.
type integral struct {
	sum, sq []float64
	stride  int
}

func buildIntegral(f Plane) integral {
	stride := f.W + 1
	in := integral{sum: make([]float64, stride*(f.H+1)), sq: make([]float64, stride*(f.H+1)), stride: stride}
	for y := 0; y < f.H; y++ {
		var rowSum, rowSq float64
		for x := 0; x < f.W; x++ {
			v := float64(f.Pix[y*f.W+x])
			rowSum += v
			rowSq += v * v
			off := (y+1)*stride + x + 1
			in.sum[off] = in.sum[off-stride] + rowSum
			in.sq[off] = in.sq[off-stride] + rowSq
		}
	}
	return in
}

// window returns the sum and the sum of squares over [x, x+w) x [y, y+h).
func (in integral) window(x, y, w, h int) (float64, float64) {
	s := in.stride
	a, b := y*s+x, y*s+x+w
	c, d := (y+h)*s+x, (y+h)*s+x+w
	return in.sum[d] - in.sum[b] - in.sum[c] + in.sum[a], in.sq[d] - in.sq[b] - in.sq[c] + in.sq[a]
}

// Score computes the normalized correlation coefficient of t against every
// valid alignment inside frame and returns the maximum. Flat windows score 0.
func Score(frame Plane, t *Template) (float64, error) {
	if t == nil || frame.Empty() {
		return 0, errors.Wrap(ErrFrameSize, "empty frame or template")
	}
	if !t.Fits(frame.W, frame.H) {
		return 0, errors.Wrapf(ErrTemplateTooLarge, "%s %dx%d in %dx%d", t.Name, t.Plane.W, t.Plane.H, frame.W, frame.H)
	}
	w, h := t.Plane.W, t.Plane.H
	n := float64(w * h)
	in := buildIntegral(frame)
	best := -1.0
	for y := 0; y <= frame.H-h; y++ {
		for x := 0; x <= frame.W-w; x++ {
			sumF, sumF2 := in.window(x, y, w, h)
			varF := sumF2 - sumF*sumF/n
			score := 0.0
			if varF > 1e-9 {
				var num float64
				for ty := 0; ty < h; ty++ {
					frow := frame.Pix[(y+ty)*frame.W+x : (y+ty)*frame.W+x+w]
					trow := t.zero[ty*w : ty*w+w]
					for i, tv := range trow {
						num += float64(frow[i]) * tv
					}
				}
				score = num / math.Sqrt(varF*t.energ)
			}
			if score > best {
				best = score
			}
		}
	}
	// rounding can push a perfect match a hair past 1
	if best > 1 {
		best = 1
	}
	return best, nil
}
