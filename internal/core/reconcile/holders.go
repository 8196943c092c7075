package reconcile

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// HolderBalances recomputes every holder's position from the transaction set.
// Confirmed effects move the balance of their currency; unconfirmed effects are
// rolled up as pending in or pending out. Currencies are never netted here.
// The result follows the order of holders.
func HolderBalances(holders []domain.Holder, txns []domain.Transaction) []domain.HolderBalance {
	byID := make(map[string]*domain.HolderBalance, len(holders))
	out := make([]domain.HolderBalance, len(holders))
	for i, h := range holders {
		out[i] = domain.HolderBalance{
			HolderID:      h.ID,
			HolderName:    h.Name,
			HolderType:    h.Type,
			BalanceUSD:    decimal.Zero,
			BalanceGEL:    decimal.Zero,
			PendingInUSD:  decimal.Zero,
			PendingOutUSD: decimal.Zero,
			PendingInGEL:  decimal.Zero,
			PendingOutGEL: decimal.Zero,
		}
		byID[h.ID] = &out[i]
	}

	for _, t := range txns {
		for _, eff := range accounting.HolderEffects(t) {
			b, ok := byID[eff.HolderID]
			if !ok {
				continue
			}
			applyEffect(b, eff, t.IsConfirmed())
			if b.LastActivity == nil || t.Date.After(*b.LastActivity) {
				d := t.Date
				b.LastActivity = &d
			}
		}
	}
	return out
}

func applyEffect(b *domain.HolderBalance, eff accounting.Effect, confirmed bool) {
	switch {
	case confirmed && eff.Currency == domain.CurrencyUSD:
		b.BalanceUSD = b.BalanceUSD.Add(eff.Amount)
	case confirmed && eff.Currency == domain.CurrencyGEL:
		b.BalanceGEL = b.BalanceGEL.Add(eff.Amount)
	case eff.Currency == domain.CurrencyUSD && eff.Amount.IsPositive():
		b.PendingInUSD = b.PendingInUSD.Add(eff.Amount)
	case eff.Currency == domain.CurrencyUSD:
		b.PendingOutUSD = b.PendingOutUSD.Add(eff.Amount.Abs())
	case eff.Currency == domain.CurrencyGEL && eff.Amount.IsPositive():
		b.PendingInGEL = b.PendingInGEL.Add(eff.Amount)
	case eff.Currency == domain.CurrencyGEL:
		b.PendingOutGEL = b.PendingOutGEL.Add(eff.Amount.Abs())
	}
}
