package sqldb

import (
	"context"
	"errors"

	gamificationDomain "microloan-backend/internal/domain/gamification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository struct{ db *gorm.DB }

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{db: db}
}

func (r *GamificationRepository) GetByUserID(ctx context.Context, userID string) (*gamificationDomain.State, error) {
	var out gamificationDomain.State
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

// locked applies SELECT ... FOR UPDATE where the dialect has row locks;
// sqlite has a single writer and rejects the clause.
func (r *GamificationRepository) locked(tx *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetOrInitForUpdate locks the user's row for the rest of the transaction,
// creating the zero state on first touch. The lock is what serializes
// concurrent apply/repay requests for one user.
func (r *GamificationRepository) GetOrInitForUpdate(ctx context.Context, userID string) (*gamificationDomain.State, error) {
	var out gamificationDomain.State
	res := r.locked(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&out)
	if res.Error == nil {
		return &out, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, res.Error
	}

	st := gamificationDomain.NewState(userID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(st).Error; err != nil {
		return nil, err
	}
	// Re-read under the lock in case a concurrent tx created the row first.
	res = r.locked(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *GamificationRepository) Save(ctx context.Context, s *gamificationDomain.State) error {
	return r.db.WithContext(ctx).Save(s).Error
}
