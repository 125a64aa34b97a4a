package port

import (
	"context"
	"errors"

	"vehicle-inspector/internal/domain/entity"
)

// ErrDetectorUnavailable модель не загрузилась, детекция невозможна
var ErrDetectorUnavailable = errors.New("detector unavailable")

// DamageDetector интерфейс детектора повреждений
type DamageDetector interface {
	// Ready возвращает ошибку с ErrDetectorUnavailable, если модель не загружена
	Ready() error

	// Detect возвращает детекции с уверенностью не ниже порога модели
	Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error)
}

// DamageAnnotator рисует найденные повреждения поверх фотографии
type DamageAnnotator interface {
	// Annotate возвращает JPEG с рамками вокруг повреждений
	Annotate(imageData []byte, damages []entity.DamageFinding) ([]byte, error)
}
