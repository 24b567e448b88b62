package uowmock

import (
	"context"
	"errors"

	"microloan-backend/internal/domain/gamification"
	"microloan-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinUserTxFn func(ctx context.Context, userID string, fn func(r uow.Repos, st *gamification.State) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW whose transactions simply run against the given
// repos, with the gamification row pulled through GetOrInitForUpdate.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(r)
		},
		WithinUserTxFn: func(ctx context.Context, userID string, fn func(r uow.Repos, st *gamification.State) error) error {
			st, err := r.Gamification.GetOrInitForUpdate(ctx, userID)
			if err != nil {
				return err
			}
			return fn(r, st)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinUserTx(ctx context.Context, userID string, fn func(r uow.Repos, st *gamification.State) error) error {
	if m.WithinUserTxFn != nil {
		return m.WithinUserTxFn(ctx, userID, fn)
	}
	return errUnimplemented
}
