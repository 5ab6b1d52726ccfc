package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

var ErrInvalidName = errors.New("name is required")

// Bill represents a restaurant bill shared through a session link.
// It is the aggregate root for items, participants and selections.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// SessionID is the public identifier used in share links (UUID format).
	SessionID string

	// RestaurantName is optional.
	RestaurantName string

	// HostName is the participant who created the bill and paid the restaurant.
	HostName string

	// Tax and Tip are bill-level amounts split equally among participants.
	Tax decimal.Decimal
	Tip decimal.Decimal

	// Total is the amount entered by the host. It is not guaranteed to equal
	// items + tax + tip; allocation always recomputes from items.
	Total decimal.Decimal

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewBill creates a validated bill. A zero total is left for the caller to fill in.
func NewBill(hostName, restaurantName string, tax, tip, total decimal.Decimal) (*Bill, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, fmt.Errorf("host: %w", ErrInvalidName)
	}
	for _, f := range []struct {
		field string
		value decimal.Decimal
	}{{"tax", tax}, {"tip", tip}, {"total", total}} {
		if f.value.IsNegative() {
			return nil, &calculator.AmountError{Field: f.field, Value: f.value.String()}
		}
	}

	return &Bill{
		HostName:       hostName,
		RestaurantName: strings.TrimSpace(restaurantName),
		Tax:            tax,
		Tip:            tip,
		Total:          total,
	}, nil
}

// DisplayName returns the restaurant name or a generic fallback.
func (b *Bill) DisplayName() string {
	if b.RestaurantName == "" {
		return "Restaurant Bill"
	}
	return b.RestaurantName
}
