// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// The pool is limited to one connection so that every transaction is
// serialized; a selection replacement is never observed half applied.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every connection the pool opens
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill, its items and the host participant in one transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill, items []models.BillItem) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.SessionID == "" {
		bill.SessionID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	bill.UpdatedAt = bill.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, session_id, restaurant_name, host_name, tax, tip, total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.SessionID, bill.RestaurantName, bill.HostName,
		bill.Tax.String(), bill.Tip.String(), bill.Total.String(), bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range items {
		if err := insertItem(ctx, tx, bill.ID, &items[i], bill.CreatedAt); err != nil {
			return err
		}
	}

	// The host is always the first participant
	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (id, bill_id, name, created_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), bill.ID, bill.HostName, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert host participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBillBySession retrieves a bill by its session ID.
func (s *SQLiteStore) GetBillBySession(ctx context.Context, sessionID string) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, restaurant_name, host_name, tax, tip, total, created_at, updated_at
		 FROM bills WHERE session_id = ?`,
		sessionID,
	).Scan(&bill.ID, &bill.SessionID, &bill.RestaurantName, &bill.HostName,
		&bill.Tax, &bill.Tip, &bill.Total, &bill.CreatedAt, &bill.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return bill, nil
}

// DeleteBill removes a bill; items, participants and selections cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", sessionID, storage.ErrNotFound)
	}
	return nil
}

// PurgeBillsBefore deletes bills created before cutoff.
func (s *SQLiteStore) PurgeBillsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge bills: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check purged rows: %w", err)
	}
	return n, nil
}

// touchBill bumps a bill's updated_at inside a transaction.
func touchBill(ctx context.Context, tx *sql.Tx, billID string, now int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE bills SET updated_at = ? WHERE id = ?", now, billID)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}
