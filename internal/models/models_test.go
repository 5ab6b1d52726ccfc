package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receiptsplit/internal/calculator"
)

func TestNewBill(t *testing.T) {
	bill, err := NewBill("  Alice ", " Luigi's ", decimal.RequireFromString("2.00"), decimal.RequireFromString("3.00"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "Alice", bill.HostName)
	assert.Equal(t, "Luigi's", bill.RestaurantName)
	assert.Equal(t, "Luigi's", bill.DisplayName())

	_, err = NewBill(" ", "", decimal.Zero, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewBill("Alice", "", decimal.Zero, decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, err, calculator.ErrInvalidAmount)
	var amountErr *calculator.AmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "tip", amountErr.Field)
}

func TestBillDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Restaurant Bill", (&Bill{}).DisplayName())
}

func TestNewBillItem(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		price    string
		quantity int
		wantErr  error
	}{
		{name: "valid", itemName: "Pizza", price: "12.99", quantity: 2},
		{name: "free item", itemName: "Water", price: "0", quantity: 1},
		{name: "blank name", itemName: "  ", price: "1", quantity: 1, wantErr: ErrInvalidName},
		{name: "negative price", itemName: "Refund", price: "-1", quantity: 1, wantErr: calculator.ErrInvalidAmount},
		{name: "zero quantity", itemName: "Ghost", price: "1", quantity: 0, wantErr: calculator.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewBillItem(tt.itemName, decimal.RequireFromString(tt.price), tt.quantity, false)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, item.Quantity)
		})
	}
}

func TestBillItemLineTotal(t *testing.T) {
	item := BillItem{Price: decimal.RequireFromString("4.25"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("12.75").Equal(item.LineTotal()))
}

func TestToCalculatorItems(t *testing.T) {
	items := []BillItem{
		{ID: "1", Name: "Bread", Price: decimal.NewFromInt(6), Quantity: 1, Shared: true, SelectedBy: []string{"Alice", "Bob"}},
	}

	got := ToCalculatorItems(items)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.True(t, got[0].Shared)
	assert.Equal(t, []string{"Alice", "Bob"}, got[0].SelectedBy)
}

func TestSelectionsByItem(t *testing.T) {
	participants := []Participant{
		{Name: "Alice", ItemIDs: []string{"pizza", "bread"}},
		{Name: "Bob", ItemIDs: []string{"bread"}},
		{Name: "Charlie"},
	}

	assert.Equal(t, map[string][]string{
		"pizza": {"Alice"},
		"bread": {"Alice", "Bob"},
	}, SelectionsByItem(participants))
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, ParticipantNames(participants))
}

func TestNewParticipant(t *testing.T) {
	p, err := NewParticipant(" Bob ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)

	_, err = NewParticipant("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueIDs([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, UniqueIDs(nil))
}
