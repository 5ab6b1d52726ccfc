package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

// BillItem represents a single line item on a bill.
type BillItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// BillID is the bill this item belongs to.
	BillID string

	// Name is the description printed on the receipt (e.g., "Pizza", "Beer").
	Name string

	// Price is the unit price.
	Price decimal.Decimal

	// Quantity is the number of units ordered, at least 1.
	Quantity int

	// Shared is informational: a shared item and an item claimed by several
	// people are both split evenly among selectors.
	Shared bool

	// SelectedBy lists the names of participants who claimed this item.
	// Filled in by the store on read.
	SelectedBy []string
}

// NewBillItem creates a validated item.
func NewBillItem(name string, price decimal.Decimal, quantity int, shared bool) (*BillItem, error) {
	item := &BillItem{
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
		Shared:   shared,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the name, price and quantity.
func (i *BillItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("item: %w", ErrInvalidName)
	}
	if i.Price.IsNegative() {
		return &calculator.AmountError{Field: "price", Value: i.Price.String()}
	}
	if i.Quantity < 1 {
		return &calculator.AmountError{Field: "quantity", Value: fmt.Sprint(i.Quantity)}
	}
	return nil
}

// LineTotal returns price × quantity.
func (i *BillItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ToCalculatorItems converts bill items to allocation engine items.
func ToCalculatorItems(items []BillItem) []calculator.Item {
	calcItems := make([]calculator.Item, len(items))
	for i, item := range items {
		calcItems[i] = calculator.Item{
			ID:         item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Shared:     item.Shared,
			SelectedBy: item.SelectedBy,
		}
	}
	return calcItems
}
