package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) error
	// ListByUserID returns the user's repayments in insertion order.
	ListByUserID(ctx context.Context, userID string) ([]Repayment, error)
}
