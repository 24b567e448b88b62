package gamification

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*State, error)
	// GetOrInitForUpdate returns the row under a write lock, inserting the
	// zero state first when the user has never been touched. Callers must be
	// inside a transaction.
	GetOrInitForUpdate(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, s *State) error
}
