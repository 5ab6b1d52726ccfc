package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleWithHost(t *testing.T) {
	items := []Item{
		{ID: "burger", Name: "Burger", Price: d("15.00"), Quantity: 1, SelectedBy: []string{"Alice"}},
		{ID: "fries", Name: "Fries", Price: d("5.00"), Quantity: 1, Shared: true, SelectedBy: []string{"Alice", "Bob"}},
		{ID: "salad", Name: "Salad", Price: d("9.00"), Quantity: 1, SelectedBy: []string{"Charlie"}},
	}
	r, err := ComputeShares(items, []string{"Alice", "Bob", "Charlie", "Diana"}, SelectionsFromItems(items), d("0"), d("0"))
	require.NoError(t, err)

	transfers := SettleWithHost(r, "Alice")

	// Diana claimed nothing and there are no extras, so she owes nothing.
	require.Len(t, transfers, 2)
	assert.Equal(t, "Bob", transfers[0].From)
	assert.Equal(t, "Alice", transfers[0].To)
	assertAmount(t, "2.50", transfers[0].Amount)
	assert.Equal(t, "Charlie", transfers[1].From)
	assertAmount(t, "9.00", transfers[1].Amount)

	assertAmount(t, "11.50", HostBalance(r, "Alice"))
}

func TestSettleWithHost_UnknownHost(t *testing.T) {
	r, err := ComputeShares(nil, []string{"Alice"}, nil, d("1"), d("0"))
	require.NoError(t, err)

	assert.Nil(t, SettleWithHost(r, "Mallory"))
	assert.True(t, HostBalance(r, "Mallory").IsZero())
}

func TestSettleWithHost_NoParticipants(t *testing.T) {
	r, err := ComputeShares(nil, nil, nil, d("0"), d("0"))
	require.NoError(t, err)

	assert.Nil(t, SettleWithHost(r, "Alice"))
}
