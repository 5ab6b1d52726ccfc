// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/receiptsplit/internal/models"
)

var (
	// ErrNotFound is returned when a bill, item or participant does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a participant name is taken within a bill.
	ErrAlreadyExists = errors.New("already exists")

	// ErrForeignItem is returned when a selection names an item from another bill.
	ErrForeignItem = errors.New("item does not belong to bill")
)

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateBill persists a new bill with its items and adds the host as the
	// first participant. ID, SessionID and timestamps are populated by the store,
	// as are the item IDs.
	CreateBill(ctx context.Context, bill *models.Bill, items []models.BillItem) error

	// GetBillBySession retrieves a bill by its session ID.
	// Returns ErrNotFound if the bill does not exist.
	GetBillBySession(ctx context.Context, sessionID string) (*models.Bill, error)

	// GetItems returns a bill's items in insertion order, with SelectedBy resolved.
	GetItems(ctx context.Context, billID string) ([]models.BillItem, error)

	// GetParticipants returns a bill's participants in join order, each with
	// its current selection set.
	GetParticipants(ctx context.Context, billID string) ([]models.Participant, error)

	// UpdateItems applies host edits to existing items.
	// Returns ErrNotFound if any item is not part of the bill; nothing is changed then.
	UpdateItems(ctx context.Context, billID string, items []models.BillItem) error

	// AddItem appends an item to a bill. item.ID is populated by the store.
	AddItem(ctx context.Context, billID string, item *models.BillItem) error

	// RemoveItem deletes an item and every selection of it.
	RemoveItem(ctx context.Context, billID, itemID string) error

	// AddParticipant adds a named participant to a bill.
	// Returns ErrAlreadyExists if the name is taken.
	AddParticipant(ctx context.Context, billID, name string) (*models.Participant, error)

	// SetSelections replaces all selections of a participant with exactly
	// itemIDs, atomically. Calling it twice with the same set is a no-op.
	// Returns ErrForeignItem if an item belongs to a different bill.
	SetSelections(ctx context.Context, participantID string, itemIDs []string) error

	// DeleteBill removes a bill and everything attached to it.
	DeleteBill(ctx context.Context, sessionID string) error

	// PurgeBillsBefore deletes bills created before cutoff and returns how many were removed.
	PurgeBillsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
