package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// createdAtLayout is RFC 3339 with fixed-width nanoseconds. RFC3339Nano
// trims trailing fractional zeros, which breaks the lexicographic ORDER BY
// on created_at for same-second rows; a fixed-width format keeps text
// ordering chronological.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository is the SQLite-backed transaction store. Beyond the store port
// it tracks a per-row sync status consumed by the export worker.
type Repository struct {
	db *sql.DB
}

var _ store.TransactionStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, tx core.Transaction) (string, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (tx_type, amount, description, category, tx_date, owner_email, owner_name, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending')`,
		tx.Type, float64(tx.Amount), tx.Description, tx.Category, tx.Date,
		tx.OwnerEmail, tx.OwnerName, tx.CreatedAt.UTC().Format(createdAtLayout))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", tx.Type,
		"owner_email", tx.OwnerEmail)

	return strconv.FormatInt(id, 10), nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerEmail, txType string) ([]core.Transaction, error) {
	query := `
		SELECT id, tx_type, amount, description, category, tx_date, owner_email, owner_name, created_at
		FROM transactions
		WHERE owner_email = ?`
	args := []any{ownerEmail}
	if txType != "" {
		query += " AND tx_type = ?"
		args = append(args, txType)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Transaction, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return core.Transaction{}, store.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, tx_type, amount, description, category, tx_date, owner_email, owner_name, created_at
		FROM transactions
		WHERE id = ?`, numericID)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (r *Repository) Update(ctx context.Context, tx core.Transaction) error {
	numericID, err := strconv.ParseInt(tx.ID, 10, 64)
	if err != nil {
		return store.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET tx_type = ?, amount = ?, description = ?, category = ?, tx_date = ?, sync_status = 'pending'
		WHERE id = ?`,
		tx.Type, float64(tx.Amount), tx.Description, tx.Category, tx.Date, numericID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id, ownerEmail string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return store.ErrNotFound
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND owner_email = ?",
		numericID, ownerEmail)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PendingSync returns ids of rows awaiting export, oldest first.
func (r *Repository) PendingSync(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY created_at ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}
	return ids, nil
}

// MarkSynced marks a transaction as successfully exported.
func (r *Repository) MarkSynced(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, "synced"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having failed export.
func (r *Repository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.setSyncStatus(ctx, id, "error"); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func (r *Repository) setSyncStatus(ctx context.Context, id, status string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return store.ErrNotFound
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = ? WHERE id = ?", status, numericID); err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		id        int64
		amount    float64
		createdAt string
		tx        core.Transaction
	)
	err := row.Scan(&id, &tx.Type, &amount, &tx.Description, &tx.Category,
		&tx.Date, &tx.OwnerEmail, &tx.OwnerName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	tx.ID = strconv.FormatInt(id, 10)
	tx.Amount = core.Amount(amount)
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		tx.CreatedAt = t
	}
	return tx, nil
}
