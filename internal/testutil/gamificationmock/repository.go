package gamificationmock

import (
	"context"

	domain "microloan-backend/internal/domain/gamification"

	"gorm.io/gorm"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByUserIDFn        func(ctx context.Context, userID string) (*domain.State, error)
	GetOrInitForUpdateFn func(ctx context.Context, userID string) (*domain.State, error)
	SaveFn               func(ctx context.Context, s *domain.State) error
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.State, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetOrInitForUpdate(ctx context.Context, userID string) (*domain.State, error) {
	if m.GetOrInitForUpdateFn != nil {
		return m.GetOrInitForUpdateFn(ctx, userID)
	}
	return domain.NewState(userID), nil
}

func (m *Repo) Save(ctx context.Context, s *domain.State) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
