package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/store"
)

// SyncStore is the slice of the storage layer the worker needs: row lookup
// plus the sync-status bookkeeping columns.
type SyncStore interface {
	Get(ctx context.Context, id string) (core.Transaction, error)
	PendingSync(ctx context.Context, limit int) ([]string, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// ExportWorker appends committed transactions to the external ledger. Events
// arrive over AMQP; a periodic sweep of pending rows covers messages lost
// while the broker was down.
type ExportWorker struct {
	store     SyncStore
	ledger    export.RowAppender
	batchSize int
}

func NewExportWorker(store SyncStore, ledger export.RowAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", event.ID,
		"op", event.Op)

	switch event.Op {
	case amqp.OpCreated, amqp.OpUpdated:
		return w.exportTransaction(ctx, event.ID)
	case amqp.OpDeleted:
		// The ledger is append-only; deletions leave the exported history intact.
		slog.InfoContext(ctx, "Skipping ledger export for deleted transaction", "id", event.ID)
		return nil
	default:
		// A returned error would requeue the delivery and redeliver it
		// forever; unknown ops are dropped like malformed payloads.
		slog.WarnContext(ctx, "Dropping event with unknown op",
			"id", event.ID,
			"op", event.Op)
		return nil
	}
}

// ProcessPending exports rows still marked pending. Used at startup and on
// the sweep ticker as a backup for lost AMQP messages.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, id := range pending {
		if err := w.exportTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", id, "error", err)
		}
	}

	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id string) error {
	tx, err := w.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between event and processing; nothing left to export.
			slog.WarnContext(ctx, "Transaction no longer exists, skipping export", "id", id)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.ledger.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The export itself worked, the row just stays pending.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", id,
		"ledger_ref", ref)

	return nil
}
