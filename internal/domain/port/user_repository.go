package port

import (
	"context"

	"vehicle-inspector/internal/domain/entity"
)

// UserRepository хранит состояние диалога и последнюю оценку пользователя
type UserRepository interface {
	// Get возвращает пользователя, при первом обращении создаёт его
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	Save(ctx context.Context, user *entity.User) error

	// SaveAssessment запоминает последнюю оценку пользователя
	SaveAssessment(ctx context.Context, userID int64, assessment *entity.Assessment) error
}
