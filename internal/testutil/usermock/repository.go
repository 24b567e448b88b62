package usermock

import (
	"context"

	domain "microloan-backend/internal/domain/user"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateIfAbsentFn func(ctx context.Context, u *domain.User) error
	GetByUserIDFn    func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *Repo) CreateIfAbsent(ctx context.Context, u *domain.User) error {
	if m.CreateIfAbsentFn != nil {
		return m.CreateIfAbsentFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}
