package calculator

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// CurrencyPlaces is the number of decimal places a final share is rounded to.
	CurrencyPlaces = 2

	// costPrecision is the number of decimal places kept for informational
	// per-selector costs and per-person extras.
	costPrecision = 28
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidItem        = errors.New("invalid item")
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrNoParticipants     = errors.New("bill has no participants")
)

// AmountError reports a negative price, tax or tip, or a non-positive quantity.
// It matches ErrInvalidAmount with errors.Is.
type AmountError struct {
	Field string
	Value string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%s: %s = %s", ErrInvalidAmount, e.Field, e.Value)
}

func (e *AmountError) Unwrap() error {
	return ErrInvalidAmount
}

// Item represents a single line item on the bill.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal // unit price
	Quantity int
	Shared   bool

	// SelectedBy lists the participants who claimed this item. It is only read
	// by SelectionsFromItems; ComputeShares takes selections explicitly.
	SelectedBy []string
}

// LineTotal returns price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SplitReason explains why an item's cost was divided.
type SplitReason string

const (
	SplitSole              SplitReason = "sole"
	SplitShared            SplitReason = "shared"
	SplitMultipleClaimants SplitReason = "multiple_claimants"
)

// ItemShare is one participant's portion of one item.
type ItemShare struct {
	ItemID    string
	Name      string
	Quantity  int
	Shared    bool
	LineTotal decimal.Decimal
	Cost      decimal.Decimal // LineTotal / SplitWays, unrounded
	SplitWays int
	Reason    SplitReason
}

// PersonShare is the calculated share for one participant.
type PersonShare struct {
	Participant   string
	Items         []ItemShare
	ItemsSubtotal decimal.Decimal // unrounded sum of item costs
	Extras        decimal.Decimal // equal share of tax + tip, unrounded
	Total         decimal.Decimal // rounded to CurrencyPlaces
}

// UnclaimedItem is an item nobody selected.
type UnclaimedItem struct {
	ItemID    string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// OrphanedSelection is a selection naming someone outside the participant list.
type OrphanedSelection struct {
	ItemID      string
	Participant string
}

// Result is the output of ComputeShares.
type Result struct {
	// Shares maps every participant to the amount they owe, rounded to cents.
	Shares map[string]decimal.Decimal

	// ItemsByParticipant maps every participant to their itemized costs in item order.
	ItemsByParticipant map[string][]ItemShare

	// People holds the same data ordered like the participants input.
	People []PersonShare

	Unclaimed []UnclaimedItem
	Orphaned  []OrphanedSelection

	PerPersonExtra    decimal.Decimal
	ClaimedSubtotal   decimal.Decimal
	UnclaimedSubtotal decimal.Decimal
	Tax               decimal.Decimal
	Tip               decimal.Decimal

	// NoParticipants is set when the participant list is empty. Shares is
	// then empty and tax and tip are left unallocated.
	NoParticipants bool
}

// Err returns ErrNoParticipants when the result carries that condition.
func (r *Result) Err() error {
	if r.NoParticipants {
		return ErrNoParticipants
	}
	return nil
}

// SelectionsFromItems builds the item ID -> selectors relation from each item's SelectedBy.
func SelectionsFromItems(items []Item) map[string][]string {
	selections := make(map[string][]string, len(items))
	for _, item := range items {
		if len(item.SelectedBy) == 0 {
			continue
		}
		selections[item.ID] = append(selections[item.ID], item.SelectedBy...)
	}
	return selections
}

// claim is an item with its resolved selectors.
type claim struct {
	item      Item
	lineTotal decimal.Decimal
	selectors []string
}

// ComputeShares allocates a bill among its participants.
//
// Algorithm:
//   - each item's line total (price × quantity) is divided evenly among its selectors,
//     whether the item is shared or merely claimed by several people
//   - items without selectors are reported as unclaimed and charged to nobody
//   - tax + tip is divided equally among all participants, including those who
//     claimed nothing
//   - each participant's total is rounded to cents exactly once, half away from zero
//
// Selections naming someone outside participants are ignored and reported in
// Result.Orphaned. Duplicate selectors on one item count once.
func ComputeShares(items []Item, participants []string, selections map[string][]string, tax, tip decimal.Decimal) (*Result, error) {
	if err := validate(items, participants, tax, tip); err != nil {
		return nil, err
	}

	result := &Result{
		Shares:             make(map[string]decimal.Decimal, len(participants)),
		ItemsByParticipant: make(map[string][]ItemShare, len(participants)),
		Tax:                tax,
		Tip:                tip,
		NoParticipants:     len(participants) == 0,
	}

	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p] = true
		result.ItemsByParticipant[p] = []ItemShare{}
	}

	// Resolve selectors first so every divisor is known before accumulating.
	claims := make([]claim, 0, len(items))
	divisors := map[int64]bool{}
	for _, item := range items {
		lineTotal := item.LineTotal()
		selectors := resolveSelectors(item.ID, selections[item.ID], known, result)

		if len(selectors) == 0 {
			result.Unclaimed = append(result.Unclaimed, UnclaimedItem{
				ItemID:    item.ID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
				LineTotal: lineTotal,
			})
			result.UnclaimedSubtotal = result.UnclaimedSubtotal.Add(lineTotal)
			continue
		}

		result.ClaimedSubtotal = result.ClaimedSubtotal.Add(lineTotal)
		divisors[int64(len(selectors))] = true
		claims = append(claims, claim{item: item, lineTotal: lineTotal, selectors: selectors})
	}

	if result.NoParticipants {
		return result, nil
	}

	count := int64(len(participants))
	divisors[count] = true
	denominator := commonDenominator(divisors)

	// numerators[p] / denominator is p's exact share.
	numerators := make(map[string]decimal.Decimal, len(participants))
	itemNumerators := make(map[string]decimal.Decimal, len(participants))

	for _, c := range claims {
		ways := int64(len(c.selectors))
		scaled := c.lineTotal.Mul(quotient(denominator, ways))
		cost := c.lineTotal.DivRound(decimal.NewFromInt(ways), costPrecision)
		reason := splitReason(c.item.Shared, len(c.selectors))

		for _, s := range c.selectors {
			itemNumerators[s] = itemNumerators[s].Add(scaled)
			result.ItemsByParticipant[s] = append(result.ItemsByParticipant[s], ItemShare{
				ItemID:    c.item.ID,
				Name:      c.item.Name,
				Quantity:  c.item.Quantity,
				Shared:    c.item.Shared,
				LineTotal: c.lineTotal,
				Cost:      cost,
				SplitWays: len(c.selectors),
				Reason:    reason,
			})
		}
	}

	extras := tax.Add(tip)
	extrasScaled := extras.Mul(quotient(denominator, count))
	result.PerPersonExtra = extras.DivRound(decimal.NewFromInt(count), costPrecision)

	result.People = make([]PersonShare, 0, len(participants))
	for _, p := range participants {
		numerators[p] = itemNumerators[p].Add(extrasScaled)
		total := numerators[p].DivRound(denominator, CurrencyPlaces)

		result.Shares[p] = total
		result.People = append(result.People, PersonShare{
			Participant:   p,
			Items:         result.ItemsByParticipant[p],
			ItemsSubtotal: itemNumerators[p].DivRound(denominator, costPrecision),
			Extras:        result.PerPersonExtra,
			Total:         total,
		})
	}

	return result, nil
}

// resolveSelectors de-duplicates selectors in order and drops unknown ones,
// recording them on the result.
func resolveSelectors(itemID string, selectors []string, known map[string]bool, result *Result) []string {
	if len(selectors) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(selectors))
	resolved := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if seen[s] {
			continue
		}
		seen[s] = true
		if !known[s] {
			result.Orphaned = append(result.Orphaned, OrphanedSelection{ItemID: itemID, Participant: s})
			continue
		}
		resolved = append(resolved, s)
	}
	return resolved
}

func splitReason(shared bool, ways int) SplitReason {
	switch {
	case ways == 1:
		return SplitSole
	case shared:
		return SplitShared
	default:
		return SplitMultipleClaimants
	}
}

// commonDenominator returns the least common multiple of the divisors.
func commonDenominator(divisors map[int64]bool) decimal.Decimal {
	lcm := big.NewInt(1)
	for n := range divisors {
		b := big.NewInt(n)
		g := new(big.Int).GCD(nil, nil, lcm, b)
		lcm.Mul(lcm, b.Quo(b, g))
	}
	return decimal.NewFromBigInt(lcm, 0)
}

// quotient returns denominator / n for an n that divides denominator.
func quotient(denominator decimal.Decimal, n int64) decimal.Decimal {
	q := new(big.Int).Quo(denominator.BigInt(), big.NewInt(n))
	return decimal.NewFromBigInt(q, 0)
}

func validate(items []Item, participants []string, tax, tip decimal.Decimal) error {
	if tax.IsNegative() {
		return &AmountError{Field: "tax", Value: tax.String()}
	}
	if tip.IsNegative() {
		return &AmountError{Field: "tip", Value: tip.String()}
	}

	ids := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: items[%d] has no id", ErrInvalidItem, i)
		}
		if ids[item.ID] {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidItem, item.ID)
		}
		ids[item.ID] = true

		if item.Price.IsNegative() {
			return &AmountError{Field: fmt.Sprintf("items[%d].price", i), Value: item.Price.String()}
		}
		if item.Quantity < 1 {
			return &AmountError{Field: fmt.Sprintf("items[%d].quantity", i), Value: fmt.Sprint(item.Quantity)}
		}
	}

	names := make(map[string]bool, len(participants))
	for i, p := range participants {
		if p == "" {
			return fmt.Errorf("%w: participants[%d] is empty", ErrInvalidParticipant, i)
		}
		if names[p] {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidParticipant, p)
		}
		names[p] = true
	}

	return nil
}
