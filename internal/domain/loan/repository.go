package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// CountByUserID backs the first-application check; it must run inside the
	// same transaction as the subsequent insert.
	CountByUserID(ctx context.Context, userID string) (int64, error)
}
