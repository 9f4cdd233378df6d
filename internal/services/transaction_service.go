package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ErrForbidden reports an operation the caller is not allowed to perform on
// someone else's transaction.
var ErrForbidden = errors.New("forbidden")

// Event operations published after successful writes.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventPublisher notifies downstream consumers of transaction lifecycle
// changes. Publishing is best-effort: a failure must never fail the request.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, op string) error
}

// Payload is the caller-writable subset of a transaction. Anything else in
// the request body is ignored, never persisted.
type Payload struct {
	Type        string      `json:"type"`
	Amount      core.Amount `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// TransactionService orchestrates transaction operations across the store
// and the event publisher.
type TransactionService struct {
	store  store.TransactionStore
	events EventPublisher
	now    func() time.Time
}

func NewTransactionService(st store.TransactionStore, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:  st,
		events: events,
		now:    time.Now,
	}
}

// Create stores a new transaction owned by the caller and returns its id.
// A parseable date is normalized to zero-padded ISO; anything else is
// stored empty and stays out of the report's month buckets.
func (s *TransactionService) Create(ctx context.Context, owner core.Identity, p Payload) (string, error) {
	date, ok := core.NormalizeDate(p.Date)
	if !ok {
		date = ""
	}

	tx := core.Transaction{
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		Date:        date,
		OwnerEmail:  owner.Email,
		OwnerName:   owner.Name,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.store.Insert(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, id, EventCreated)
	return id, nil
}

// List returns the caller's transactions, newest first. An empty or "all"
// txType applies no filter; any other value matches exactly, so unknown
// types yield an empty result rather than an error.
func (s *TransactionService) List(ctx context.Context, owner core.Identity, txType string) ([]core.Transaction, error) {
	if txType == store.TypeAll {
		txType = ""
	}
	txs, err := s.store.ListByOwner(ctx, owner.Email, txType)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Get fetches a transaction by id. No ownership filter: any authenticated
// caller can read any transaction.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// Update merges the payload over the stored transaction and saves it.
// Merge keeps the previous value wherever the incoming one is empty (or
// zero, for amount). Ownership is not checked; only delete is owner-gated.
func (s *TransactionService) Update(ctx context.Context, id string, p Payload) (core.Transaction, error) {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if p.Type != "" {
		tx.Type = p.Type
	}
	if p.Amount != 0 {
		tx.Amount = p.Amount
	}
	if p.Description != "" {
		tx.Description = p.Description
	}
	if p.Category != "" {
		tx.Category = p.Category
	}
	if date, ok := core.NormalizeDate(p.Date); ok {
		tx.Date = date
	}

	if err := s.store.Update(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, id, EventUpdated)
	return tx, nil
}

// Delete removes the caller's transaction. A transaction owned by someone
// else returns ErrForbidden and stays in place.
func (s *TransactionService) Delete(ctx context.Context, owner core.Identity, id string) error {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if tx.OwnerEmail != owner.Email {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, id, owner.Email); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, id, EventDeleted)
	return nil
}

// Report aggregates all of the caller's transactions into the report
// structure. Each call recomputes from the store; nothing is cached.
func (s *TransactionService) Report(ctx context.Context, owner core.Identity) (core.Report, error) {
	txs, err := s.store.ListByOwner(ctx, owner.Email, "")
	if err != nil {
		return core.Report{}, fmt.Errorf("load transactions for report: %w", err)
	}
	return core.BuildReport(txs, s.now()), nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id, op string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "op", op, "error", err)
		// Don't fail the request, the write already landed.
	}
}
