package calculator

import "github.com/shopspring/decimal"

// Reconciliation compares what participants owe against the bill total.
// It is for display only and never feeds back into allocation.
type Reconciliation struct {
	TotalPaid decimal.Decimal
	TotalBill decimal.Decimal
	Remaining decimal.Decimal // TotalBill - TotalPaid
}

// Reconcile sums the rounded shares and compares them with totalBill.
func Reconcile(result *Result, totalBill decimal.Decimal) Reconciliation {
	paid := decimal.Zero
	for _, share := range result.Shares {
		paid = paid.Add(share)
	}
	return Reconciliation{
		TotalPaid: paid,
		TotalBill: totalBill,
		Remaining: totalBill.Sub(paid),
	}
}

// Subtotal returns the sum of all line totals.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// BillTotal returns items + tax + tip rounded to cents.
func BillTotal(items []Item, tax, tip decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Add(tax).Add(tip).Round(CurrencyPlaces)
}
