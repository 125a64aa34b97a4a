package port

import "vehicle-inspector/internal/domain/entity"

// InspectionObserver получает события проверки (метрики)
type InspectionObserver interface {
	ObserveAssessment(assessment *entity.Assessment)
	ObserveFailure(stage string)
}
