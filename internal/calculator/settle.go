package calculator

import "github.com/shopspring/decimal"

// Transfer represents a payment one participant owes another.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// SettleWithHost turns a computed result into payments owed to the host.
//
// The host pays the restaurant, so every other participant with a positive
// share owes the host exactly that share. Transfers follow participant order.
// Returns nil when host is not a participant or the result has no participants.
func SettleWithHost(result *Result, host string) []Transfer {
	if result.NoParticipants {
		return nil
	}
	if _, ok := result.Shares[host]; !ok {
		return nil
	}

	var transfers []Transfer
	for _, person := range result.People {
		if person.Participant == host || !person.Total.IsPositive() {
			continue
		}
		transfers = append(transfers, Transfer{
			From:   person.Participant,
			To:     host,
			Amount: person.Total,
		})
	}
	return transfers
}

// HostBalance returns the total the host is owed by everyone else.
func HostBalance(result *Result, host string) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range SettleWithHost(result, host) {
		balance = balance.Add(t.Amount)
	}
	return balance
}
