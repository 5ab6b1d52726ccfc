package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// toBillItems validates request items and converts them to models.
func toBillItems(in []api.Item) ([]models.BillItem, error) {
	items := make([]models.BillItem, len(in))
	for i, item := range in {
		bi, err := models.NewBillItem(item.Name, item.Price, item.Quantity, item.Shared)
		if err != nil {
			return nil, err
		}
		bi.ID = item.ID
		items[i] = *bi
	}
	return items, nil
}

func toAPIBill(b *models.Bill) api.Bill {
	return api.Bill{
		ID:             b.ID,
		SessionID:      b.SessionID,
		RestaurantName: b.RestaurantName,
		HostName:       b.HostName,
		Tax:            b.Tax,
		Tip:            b.Tip,
		Total:          b.Total,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toAPIItem(i models.BillItem) api.Item {
	return api.Item{
		ID:         i.ID,
		Name:       i.Name,
		Price:      i.Price,
		Quantity:   i.Quantity,
		Shared:     i.Shared,
		SelectedBy: i.SelectedBy,
	}
}

func toAPIItems(items []models.BillItem) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = toAPIItem(item)
	}
	return out
}

func toAPIParticipant(p models.Participant) api.Participant {
	ids := p.ItemIDs
	if ids == nil {
		ids = []string{}
	}
	return api.Participant{ID: p.ID, Name: p.Name, ItemIDs: ids}
}

func toAPIParticipants(participants []models.Participant) []api.Participant {
	out := make([]api.Participant, len(participants))
	for i, p := range participants {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(calculator.CurrencyPlaces)
}

// buildSummary formats a result for the wire. host may be empty, in which
// case no transfers are listed.
func buildSummary(result *calculator.Result, totalBill decimal.Decimal, host string) api.Summary {
	rec := calculator.Reconcile(result, totalBill)

	summary := api.Summary{
		Shares:            make([]api.Share, 0, len(result.People)),
		Unclaimed:         make([]api.UnclaimedItem, 0, len(result.Unclaimed)),
		UnclaimedSubtotal: money(result.UnclaimedSubtotal),
		Tax:               money(result.Tax),
		Tip:               money(result.Tip),
		PerPersonExtra:    money(result.PerPersonExtra),
		TotalPaid:         money(rec.TotalPaid),
		TotalBill:         money(rec.TotalBill),
		Remaining:         money(rec.Remaining),
		NoParticipants:    result.NoParticipants,
	}

	for _, person := range result.People {
		share := api.Share{
			Participant:   person.Participant,
			Items:         make([]api.ItemCost, len(person.Items)),
			ItemsSubtotal: money(person.ItemsSubtotal),
			Extras:        money(person.Extras),
			Total:         money(person.Total),
		}
		for i, item := range person.Items {
			share.Items[i] = api.ItemCost{
				ItemID:    item.ItemID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				LineTotal: money(item.LineTotal),
				Cost:      money(item.Cost),
				SplitWays: item.SplitWays,
				Reason:    string(item.Reason),
			}
		}
		summary.Shares = append(summary.Shares, share)
	}

	for _, u := range result.Unclaimed {
		summary.Unclaimed = append(summary.Unclaimed, api.UnclaimedItem{
			ItemID:    u.ItemID,
			Name:      u.Name,
			Price:     money(u.Price),
			Quantity:  u.Quantity,
			LineTotal: money(u.LineTotal),
		})
	}

	if host != "" {
		for _, t := range calculator.SettleWithHost(result, host) {
			summary.Transfers = append(summary.Transfers, api.Transfer{
				From:   t.From,
				To:     t.To,
				Amount: money(t.Amount),
			})
		}
	}

	return summary
}
