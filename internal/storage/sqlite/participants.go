package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// GetParticipants returns a bill's participants in join order with their selections.
func (s *SQLiteStore) GetParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, bill_id, name, created_at FROM participants WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}

	var participants []models.Participant
	index := make(map[string]int)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.BillID, &p.Name, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.ItemIDs = []string{}
		index[p.ID] = len(participants)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	rows.Close()

	selRows, err := s.db.QueryContext(ctx,
		`SELECT s.participant_id, s.bill_item_id
		 FROM item_selections s
		 JOIN bill_items i ON i.id = s.bill_item_id
		 WHERE i.bill_id = ?
		 ORDER BY i.rowid`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer selRows.Close()

	for selRows.Next() {
		var participantID, itemID string
		if err := selRows.Scan(&participantID, &itemID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		if i, ok := index[participantID]; ok {
			participants[i].ItemIDs = append(participants[i].ItemIDs, itemID)
		}
	}
	if err := selRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}

	return participants, nil
}

// AddParticipant joins name to a bill.
func (s *SQLiteStore) AddParticipant(ctx context.Context, billID, name string) (*models.Participant, error) {
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchBill(ctx, tx, billID, now); err != nil {
		return nil, err
	}

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM participants WHERE bill_id = ? AND name = ?", billID, name,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, fmt.Errorf("participant %q: %w", name, storage.ErrAlreadyExists)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}

	p := &models.Participant{
		ID:        uuid.New().String(),
		BillID:    billID,
		Name:      name,
		ItemIDs:   []string{},
		CreatedAt: now,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO participants (id, bill_id, name, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.BillID, p.Name, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

// SetSelections replaces a participant's selection set in one transaction.
func (s *SQLiteStore) SetSelections(ctx context.Context, participantID string, itemIDs []string) error {
	now := time.Now().Unix()
	itemIDs = models.UniqueIDs(itemIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var billID string
	err = tx.QueryRowContext(ctx,
		"SELECT bill_id FROM participants WHERE id = ?", participantID,
	).Scan(&billID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get participant: %w", err)
	}

	for _, itemID := range itemIDs {
		var itemBill string
		err := tx.QueryRowContext(ctx,
			"SELECT bill_id FROM bill_items WHERE id = ?", itemID,
		).Scan(&itemBill)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get item: %w", err)
		}
		if itemBill != billID {
			return fmt.Errorf("item %s: %w", itemID, storage.ErrForeignItem)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM item_selections WHERE participant_id = ?", participantID,
	); err != nil {
		return fmt.Errorf("failed to clear selections: %w", err)
	}

	for _, itemID := range itemIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_selections (participant_id, bill_item_id, created_at) VALUES (?, ?, ?)",
			participantID, itemID, now,
		); err != nil {
			return fmt.Errorf("failed to insert selection: %w", err)
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
