package app

import (
	"context"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateProcessing)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// FinishCheck запоминает оценку и возвращает пользователя в главное меню.
func (s *UserService) FinishCheck(ctx context.Context, userID, chatID int64, assessment *entity.Assessment) (*entity.User, error) {
	user, err := s.SetState(ctx, userID, chatID, entity.StateMainMenu)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return user, nil
	}

	if err := s.repo.SaveAssessment(ctx, userID, assessment); err != nil {
		return nil, err
	}
	user.Remember(assessment)

	return user, nil
}

// LastAssessment возвращает последнюю оценку пользователя или nil
func (s *UserService) LastAssessment(ctx context.Context, userID, chatID int64) (*entity.Assessment, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return user.LastAssessment, nil
}
