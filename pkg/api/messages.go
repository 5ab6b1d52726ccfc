// Package api defines the BillService wire messages and its Connect bindings.
//
// Messages are plain Go structs carried with a JSON codec, so any Connect,
// gRPC-Web or curl client speaking application/json can call the service.
// Money is exchanged as decimal strings ("12.50").
package api

import "github.com/shopspring/decimal"

// Item is a bill line item.
type Item struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name" validate:"required,max=200"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity" validate:"gte=1"`
	Shared     bool            `json:"shared,omitempty"`
	SelectedBy []string        `json:"selected_by,omitempty"`
}

// Participant is a person who joined a bill.
type Participant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"item_ids"`
}

// Bill is the bill header.
type Bill struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"session_id"`
	RestaurantName string          `json:"restaurant_name"`
	HostName       string          `json:"host_name"`
	Tax            decimal.Decimal `json:"tax"`
	Tip            decimal.Decimal `json:"tip"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      int64           `json:"created_at"`
	UpdatedAt      int64           `json:"updated_at"`
}

type CreateBillRequest struct {
	HostName       string          `json:"host_name" validate:"required,max=100"`
	RestaurantName string          `json:"restaurant_name,omitempty" validate:"max=200"`
	Items          []Item          `json:"items" validate:"dive"`
	Tax            decimal.Decimal `json:"tax"`
	Tip            decimal.Decimal `json:"tip"`
	// Total defaults to items + tax + tip when zero.
	Total decimal.Decimal `json:"total"`
}

type CreateBillResponse struct {
	BillID    string          `json:"bill_id"`
	SessionID string          `json:"session_id"`
	Total     decimal.Decimal `json:"total"`
}

type GetBillRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type GetBillResponse struct {
	Bill         Bill          `json:"bill"`
	Items        []Item        `json:"items"`
	Participants []Participant `json:"participants"`
}

type UpdateItemsRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Items     []Item `json:"items" validate:"required,min=1,dive"`
}

type UpdateItemsResponse struct {
	Items []Item `json:"items"`
}

type AddItemRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Item      Item   `json:"item"`
}

type AddItemResponse struct {
	Item Item `json:"item"`
}

type RemoveItemRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ItemID    string `json:"item_id" validate:"required"`
}

type RemoveItemResponse struct{}

type JoinBillRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
}

type JoinBillResponse struct {
	Participant Participant `json:"participant"`
}

type SetSelectionsRequest struct {
	SessionID     string   `json:"session_id" validate:"required"`
	ParticipantID string   `json:"participant_id" validate:"required"`
	ItemIDs       []string `json:"item_ids"`
}

type SetSelectionsResponse struct {
	ItemIDs []string `json:"item_ids"`
}

type GetSummaryRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ItemCost is one participant's portion of an item.
type ItemCost struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Cost      string `json:"cost"`
	SplitWays int    `json:"split_ways"`
	Reason    string `json:"reason"`
}

// Share is what one participant owes.
type Share struct {
	Participant   string     `json:"participant"`
	Items         []ItemCost `json:"items"`
	ItemsSubtotal string     `json:"items_subtotal"`
	Extras        string     `json:"extras"`
	Total         string     `json:"total"`
}

type UnclaimedItem struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Summary is the allocation of a bill. All amounts are formatted to cents.
type Summary struct {
	Shares            []Share         `json:"shares"`
	Unclaimed         []UnclaimedItem `json:"unclaimed"`
	UnclaimedSubtotal string          `json:"unclaimed_subtotal"`
	Tax               string          `json:"tax"`
	Tip               string          `json:"tip"`
	PerPersonExtra    string          `json:"per_person_extra"`
	TotalPaid         string          `json:"total_paid"`
	TotalBill         string          `json:"total_bill"`
	Remaining         string          `json:"remaining"`
	NoParticipants    bool            `json:"no_participants"`
	Transfers         []Transfer      `json:"transfers,omitempty"`
}

type GetSummaryResponse struct {
	SessionID      string  `json:"session_id"`
	RestaurantName string  `json:"restaurant_name"`
	HostName       string  `json:"host_name"`
	Summary        Summary `json:"summary"`
}

// CalculateSharesRequest computes an allocation without storing anything.
// Item IDs are required so that selections can be expressed with SelectedBy.
type CalculateSharesRequest struct {
	Items        []Item          `json:"items" validate:"dive"`
	Participants []string        `json:"participants" validate:"dive,required"`
	Tax          decimal.Decimal `json:"tax"`
	Tip          decimal.Decimal `json:"tip"`
	// Total is used for reconciliation only; it defaults to items + tax + tip.
	Total decimal.Decimal `json:"total"`
	// Host, when set, receives transfers from everyone else.
	Host string `json:"host,omitempty"`
}

type CalculateSharesResponse struct {
	Summary Summary `json:"summary"`
}

type DeleteBillRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type DeleteBillResponse struct{}
