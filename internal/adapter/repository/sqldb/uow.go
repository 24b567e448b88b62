package sqldb

import (
	"context"

	"microloan-backend/internal/domain/gamification"
	"microloan-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:        &UserRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Repayments:   &RepaymentRepository{db: tx},
		Gamification: &GamificationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinUserTx(ctx context.Context, userID string, fn func(r uow.Repos, st *gamification.State) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the progression row up-front to prevent races
		st, err := r.Gamification.GetOrInitForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		return fn(r, st)
	})
}
