package repaymentmock

import (
	"context"

	domain "microloan-backend/internal/domain/repayment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, r *domain.Repayment) error
	ListByUserIDFn func(ctx context.Context, userID string) ([]domain.Repayment, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Repayment, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}
