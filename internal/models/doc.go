// Package models defines the core domain models for receiptsplit.
//
// # Models
//
//   - Bill: a restaurant bill, reached through its session ID
//   - BillItem: a line item with unit price, quantity and shared flag
//   - Participant: a person splitting the bill, keyed by name within the bill
//
// Constructors validate at the boundary: names must be non-empty, prices,
// tax and tip non-negative, quantities positive. Amount failures wrap
// calculator.ErrInvalidAmount so callers can use a single errors.Is check.
//
// Relationships use ID strings rather than pointers.
package models
