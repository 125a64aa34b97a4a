package port

import (
	"context"

	"vehicle-inspector/internal/domain/entity"
)

// AssessmentDescriber интерфейс описателя оценки
type AssessmentDescriber interface {
	// Describe генерирует текстовое описание оценки для пользователя
	Describe(ctx context.Context, assessment *entity.Assessment) (*entity.Description, error)
}
