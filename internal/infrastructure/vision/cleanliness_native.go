//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"errors"

	"github.com/disintegration/imaging"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/pkg/log"
)

// CleanlinessEstimator оценивает пыль/грязь по дисперсии лапласиана.
type CleanlinessEstimator struct{}

// NewCleanlinessEstimator создаёт оценщик на чистом Go (сборка без OpenCV).
func NewCleanlinessEstimator() *CleanlinessEstimator {
	return &CleanlinessEstimator{}
}

// Estimate никогда не возвращает ошибку: при сбое статус AnalysisFailed.
func (e *CleanlinessEstimator) Estimate(ctx context.Context, imageData []byte) entity.CleanlinessReading {
	variance, err := e.variance(imageData)
	if err != nil {
		log.WithRequestID(ctx).WithError(err).Warn("cleanliness analysis failed")
		return entity.FailedCleanlinessReading()
	}

	reading := entity.NewCleanlinessReading(variance)
	log.WithRequestID(ctx).WithFields(log.Fields{
		"dust_level": variance,
		"status":     reading.Status,
	}).Debug("cleanliness analysed")
	return reading
}

func (e *CleanlinessEstimator) variance(imageData []byte) (float64, error) {
	if len(imageData) == 0 {
		return 0, errors.New("empty image")
	}
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return 0, err
	}
	if img.Bounds().Empty() {
		return 0, errors.New("empty image")
	}
	return laplacianVariance(toGray(img)), nil
}

var _ port.CleanlinessEstimator = (*CleanlinessEstimator)(nil)
