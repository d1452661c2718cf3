package domain

import (
	"context"
)

// Session is one per-request unit of work against the store. Reads and staged
// writes share a single storage transaction; nothing is durable until
// SaveChanges commits. A session is not safe for concurrent use — every
// dispatch opens its own.
type Session interface {
	// Transactions returns all stored transactions in store order.
	Transactions(ctx context.Context) ([]Transaction, error)
	// Categories returns all stored categories.
	Categories(ctx context.Context) ([]Category, error)
	// AddTransaction stages a new transaction. The entity's ID is filled in
	// by SaveChanges once the store has generated it.
	AddTransaction(transaction *Transaction)
	// SaveChanges applies every staged change and commits, returning the
	// number of entities written.
	SaveChanges(ctx context.Context) (int, error)
	// Close releases the session, rolling back anything uncommitted.
	Close() error
}

type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}
