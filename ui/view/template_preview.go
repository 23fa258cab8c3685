package view

import (
	"image"

	"github.com/soocke/result-watch-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// TemplatePreview shows thumbnails of the loaded success and fail templates.
type TemplatePreview interface {
	Update(success, fail image.Image)
}

type templatePreview struct {
	successLabel *LabelWidget
	failLabel    *LabelWidget
	successPhoto *Img // previous photo, deleted on replace
	failPhoto    *Img
}

const (
	maxThumbW = 240
	maxThumbH = 90
)

// NewTemplatePreview creates both thumbnails on row.
func NewTemplatePreview(row int) TemplatePreview {
	placeholder := images.EncodePNG(images.Placeholder(maxThumbW, maxThumbH/2))
	sp := NewPhoto(Data(placeholder))
	fp := NewPhoto(Data(placeholder))
	s := Label(Image(sp), Borderwidth(1), Relief("sunken"))
	f := Label(Image(fp), Borderwidth(1), Relief("sunken"))
	Grid(s, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(f, Row(row), Column(2), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return &templatePreview{successLabel: s, failLabel: f, successPhoto: sp, failPhoto: fp}
}

func (v *templatePreview) Update(success, fail image.Image) {
	if v == nil {
		return
	}
	v.successPhoto = replacePhoto(v.successLabel, v.successPhoto, success)
	v.failPhoto = replacePhoto(v.failLabel, v.failPhoto, fail)
}

// replacePhoto shows img on lbl and disposes the old photo. A nil img keeps
// the current one.
func replacePhoto(lbl *LabelWidget, old *Img, img image.Image) *Img {
	if lbl == nil || img == nil {
		return old
	}
	data := images.EncodePNG(images.ScaleToFit(img, maxThumbW, maxThumbH))
	if old != nil {
		old.Delete()
	}
	p := NewPhoto(Data(data))
	lbl.Configure(Image(p))
	return p
}
