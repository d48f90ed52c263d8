package repository

import "context"

// IDGenerator produces globally unique identifiers for new aggregates.
type IDGenerator interface {
	Generate() string
}

// Transactor runs fn in a single storage transaction. Repositories called with
// the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserLocker serialises check-then-act sequences for one user.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}
