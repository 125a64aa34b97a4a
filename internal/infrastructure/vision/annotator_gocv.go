//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

// Annotator рисует рамки повреждений средствами OpenCV.
type Annotator struct {
	Quality int // качество JPEG
}

func NewAnnotator() *Annotator {
	return &Annotator{Quality: 90}
}

// Annotate рисует прямоугольники и подписи вокруг повреждений и возвращает новую картинку.
func (a *Annotator) Annotate(imageData []byte, damages []entity.DamageFinding) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, d := range damages {
		b := d.Detection.BBox
		c := categoryColor(d.Category)
		gocv.Rectangle(&mat, image.Rect(b.X1, b.Y1, b.X2, b.Y2), c, annotationThickness)
		gocv.PutText(&mat, d.Detection.ClassName, image.Pt(b.X1, maxInt(b.Y1-6, 12)), gocv.FontHersheySimplex, 0.5, c, 1)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: a.Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	mat.Close()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return gocv.Mat{}, errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var _ port.DamageAnnotator = (*Annotator)(nil)
