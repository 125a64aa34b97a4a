package storage

import (
	"context"
	"sync"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя; при первом обращении создаёт его
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	clone := *user

	r.mu.Lock()
	r.users[user.ID] = &clone
	r.mu.Unlock()

	return nil
}

func (r *MemoryUserRepository) SaveAssessment(ctx context.Context, userID int64, assessment *entity.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.Remember(assessment)
	}

	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
