// Package memory provides an in-memory transaction store for development
// and tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	txs  map[string]core.Transaction
	next int64
}

var _ store.TransactionStore = (*Store)(nil)

func New() *Store {
	return &Store{txs: make(map[string]core.Transaction)}
}

func (s *Store) Insert(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	tx.ID = strconv.FormatInt(s.next, 10)
	s.txs[tx.ID] = tx
	return tx.ID, nil
}

func (s *Store) ListByOwner(_ context.Context, ownerEmail, txType string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]core.Transaction, 0)
	for _, tx := range s.txs {
		if tx.OwnerEmail != ownerEmail {
			continue
		}
		if txType != "" && tx.Type != txType {
			continue
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		// Stable order for rows created in the same instant.
		a, _ := strconv.ParseInt(result[i].ID, 10, 64)
		b, _ := strconv.ParseInt(result[j].ID, 10, 64)
		return a > b
	})
	return result, nil
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *Store) Update(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[tx.ID]; !ok {
		return store.ErrNotFound
	}
	s.txs[tx.ID] = tx
	return nil
}

func (s *Store) Delete(_ context.Context, id, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[id]
	if !ok || tx.OwnerEmail != ownerEmail {
		return store.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}
