//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"

	"gocv.io/x/gocv"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/pkg/log"
)

// CleanlinessEstimator оценивает пыль/грязь по дисперсии лапласиана.
type CleanlinessEstimator struct{}

// NewCleanlinessEstimator создаёт оценщик на OpenCV.
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
	gray, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	defer gray.Close()
	if err != nil {
		return 0, err
	}
	if gray.Empty() {
		return 0, errors.New("failed to decode image")
	}

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(lap, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd, nil
}

var _ port.CleanlinessEstimator = (*CleanlinessEstimator)(nil)
