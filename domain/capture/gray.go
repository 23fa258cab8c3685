package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// gaussian3x3 is the binomial approximation of a sigma~0.8 Gaussian.
var gaussian3x3 = [9]float64{
	1, 2, 1,
	2, 4, 2,
	1, 2, 1,
}

// Plane is a single-channel intensity image stored row-major.
type Plane struct {
	Pix  []float32
	W, H int
}

// At returns the intensity at (x, y).
func (p Plane) At(x, y int) float32 { return p.Pix[y*p.W+x] }

// Empty reports whether the plane has no pixels.
func (p Plane) Empty() bool { return p.W <= 0 || p.H <= 0 || len(p.Pix) < p.W*p.H }

// Grayscale converts img to BT.601 luma.
func Grayscale(img image.Image) Plane {
	if img == nil {
		return Plane{}
	}
	return planeFromNRGBA(imaging.Grayscale(img))
}

// Preprocess converts a captured frame to intensity and applies a 3x3
// Gaussian blur to suppress single-pixel noise and compression artifacts.
func Preprocess(img image.Image) Plane {
	if img == nil {
		return Plane{}
	}
	gray := imaging.Grayscale(img)
	blurred := imaging.Convolve3x3(gray, gaussian3x3, &imaging.ConvolveOptions{Normalize: true})
	return planeFromNRGBA(blurred)
}

// planeFromNRGBA reads the red channel of an already gray image.
func planeFromNRGBA(img *image.NRGBA) Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := Plane{Pix: make([]float32, w*h), W: w, H: h}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p.Pix[y*w+x] = float32(row[x*4])
		}
	}
	return p
}
