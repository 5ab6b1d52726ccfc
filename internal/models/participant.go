package models

import (
	"fmt"
	"strings"
)

// Participant is a person splitting a bill. The host is always one.
// Within a bill the name is unique and is the key selections resolve to.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// BillID is the bill this participant joined.
	BillID string

	// Name is the display name entered on join.
	Name string

	// ItemIDs is the participant's current selection set. It is always
	// replaced as a whole, never patched.
	ItemIDs []string

	// CreatedAt is the Unix timestamp when the participant joined.
	CreatedAt int64
}

// NewParticipant creates a participant with a trimmed, non-empty name.
func NewParticipant(name string) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("participant: %w", ErrInvalidName)
	}
	return &Participant{Name: name}, nil
}

// ParticipantNames returns participant names in order.
func ParticipantNames(participants []Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}

// SelectionsByItem builds item ID -> participant names from each participant's selection set.
func SelectionsByItem(participants []Participant) map[string][]string {
	selections := make(map[string][]string)
	for _, p := range participants {
		for _, itemID := range p.ItemIDs {
			selections[itemID] = append(selections[itemID], p.Name)
		}
	}
	return selections
}

// UniqueIDs removes duplicates while keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
