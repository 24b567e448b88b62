package user

import "context"

type Repository interface {
	// CreateIfAbsent inserts the user unless the key already exists.
	// Existing rows are left untouched (first write wins).
	CreateIfAbsent(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
}
