package port

import (
	"context"

	"vehicle-inspector/internal/domain/entity"
)

// CleanlinessEstimator оценивает загрязнённость по изображению.
// Ошибки анализа не возвращаются: вместо них статус AnalysisFailed.
type CleanlinessEstimator interface {
	Estimate(ctx context.Context, imageData []byte) entity.CleanlinessReading
}
