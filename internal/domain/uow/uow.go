package uow

import (
	"context"

	"microloan-backend/internal/domain/gamification"
	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/repayment"
	"microloan-backend/internal/domain/user"
)

type Repos struct {
	Users        user.Repository
	Loans        loan.Repository
	Repayments   repayment.Repository
	Gamification gamification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock (or create) the user's gamification row first, then pass it in
	WithinUserTx(ctx context.Context, userID string, fn func(r Repos, st *gamification.State) error) error
}
