package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound reports that no transaction matched the lookup. For Delete it
// also covers the id-exists-but-owner-differs case, since the delete query
// is keyed on both.
var ErrNotFound = errors.New("transaction not found")

// TypeAll is the list filter value that matches every transaction type.
const TypeAll = "all"

// TransactionStore is the persistence port. Implementations must be safe for
// concurrent use; each method is one atomic operation against the backing
// data, with no cross-call state.
type TransactionStore interface {
	// Insert stores a new transaction and returns its assigned id.
	Insert(ctx context.Context, tx core.Transaction) (string, error)

	// ListByOwner returns the owner's transactions, newest first.
	// An empty txType applies no type filter.
	ListByOwner(ctx context.Context, ownerEmail, txType string) ([]core.Transaction, error)

	// Get fetches a transaction by id regardless of owner.
	Get(ctx context.Context, id string) (core.Transaction, error)

	// Update replaces the mutable fields of the transaction with the given id.
	Update(ctx context.Context, tx core.Transaction) error

	// Delete removes the transaction only when both id and owner match.
	Delete(ctx context.Context, id, ownerEmail string) error
}
