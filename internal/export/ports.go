// Package export defines the ledger-export port: committed transactions are
// appended to an external, append-only ledger by the sync worker.
package export

import (
	"context"

	"fintrack/internal/core"
)

// RowAppender appends one transaction to the external ledger and returns an
// implementation-specific reference to the written row.
type RowAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) (string, error)
}
