//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

// Annotator рисует рамки повреждений без OpenCV.
type Annotator struct {
	Quality int // качество JPEG
}

func NewAnnotator() *Annotator {
	return &Annotator{Quality: 90}
}

// Annotate рисует прямоугольники вокруг повреждений и возвращает новую картинку.
func (a *Annotator) Annotate(imageData []byte, damages []entity.DamageFinding) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if src.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	img := imaging.Clone(src)
	for _, d := range damages {
		b := d.Detection.BBox
		drawRect(img, image.Rect(b.X1, b.Y1, b.X2, b.Y2), categoryColor(d.Category), annotationThickness)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(a.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRect(img *image.NRGBA, r image.Rectangle, c color.RGBA, thickness int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, r.Min.Y+t, c)
			img.Set(x, r.Max.Y-1-t, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.Set(r.Min.X+t, y, c)
			img.Set(r.Max.X-1-t, y, c)
		}
	}
}

var _ port.DamageAnnotator = (*Annotator)(nil)
