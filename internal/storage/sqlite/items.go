package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertItem(ctx context.Context, db execer, billID string, item *models.BillItem, now int64) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.BillID = billID

	_, err := db.ExecContext(ctx,
		`INSERT INTO bill_items (id, bill_id, name, price, quantity, shared, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, billID, item.Name, item.Price.String(), item.Quantity, boolToInt(item.Shared), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItems returns a bill's items in insertion order with SelectedBy filled in.
func (s *SQLiteStore) GetItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bill_id, name, price, quantity, shared
		 FROM bill_items WHERE bill_id = ? ORDER BY rowid`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	var items []models.BillItem
	index := make(map[string]int)
	for rows.Next() {
		var item models.BillItem
		var shared int
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.Price, &item.Quantity, &shared); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Shared = shared != 0
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	rows.Close()

	// Selectors in participant join order
	selRows, err := s.db.QueryContext(ctx,
		`SELECT s.bill_item_id, p.name
		 FROM item_selections s
		 JOIN participants p ON p.id = s.participant_id
		 WHERE p.bill_id = ?
		 ORDER BY p.rowid`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer selRows.Close()

	for selRows.Next() {
		var itemID, name string
		if err := selRows.Scan(&itemID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].SelectedBy = append(items[i].SelectedBy, name)
		}
	}
	if err := selRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}

	return items, nil
}

// UpdateItems rewrites name, price, quantity and shared for existing items.
func (s *SQLiteStore) UpdateItems(ctx context.Context, billID string, items []models.BillItem) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		res, err := tx.ExecContext(ctx,
			`UPDATE bill_items SET name = ?, price = ?, quantity = ?, shared = ?, updated_at = ?
			 WHERE id = ? AND bill_id = ?`,
			item.Name, item.Price.String(), item.Quantity, boolToInt(item.Shared), now, item.ID, billID,
		)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("item %s: %w", item.ID, storage.ErrNotFound)
		}
	}

	if err := touchBill(ctx, tx, billID, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddItem appends an item to a bill.
func (s *SQLiteStore) AddItem(ctx context.Context, billID string, item *models.BillItem) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// touch first so a missing bill reports ErrNotFound instead of a constraint error
	if err := touchBill(ctx, tx, billID, now); err != nil {
		return err
	}
	if err := insertItem(ctx, tx, billID, item, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveItem deletes an item; its selections cascade.
func (s *SQLiteStore) RemoveItem(ctx context.Context, billID, itemID string) error {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM bill_items WHERE id = ? AND bill_id = ?", itemID, billID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}

	if err := touchBill(ctx, tx, billID, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
