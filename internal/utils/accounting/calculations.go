package accounting

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Effect is the signed movement a transaction causes on one holder in one currency.
type Effect struct {
	HolderID string
	Currency domain.Currency
	Amount   decimal.Decimal // positive = money in, negative = money out
}

// HolderEffects expands a transaction into the holder movements it causes.
// Balances are always recomputed from these; nothing is stored per holder.
//
//	in       -> +amount on the accountable holder
//	out      -> -amount on the accountable holder
//	transfer -> -amount on from, +amount on to (same currency)
//	exchange -> -amount/currency on from, +toAmount/toCurrency on to
func HolderEffects(txn domain.Transaction) []Effect {
	switch txn.Kind {
	case domain.KindIn:
		if id := txn.AccountableHolderID(); id != "" {
			return []Effect{{HolderID: id, Currency: txn.Currency, Amount: txn.Amount}}
		}
	case domain.KindOut:
		if id := txn.AccountableHolderID(); id != "" {
			return []Effect{{HolderID: id, Currency: txn.Currency, Amount: txn.Amount.Neg()}}
		}
	case domain.KindTransfer:
		effects := make([]Effect, 0, 2)
		if txn.FromHolderID != nil {
			effects = append(effects, Effect{HolderID: *txn.FromHolderID, Currency: txn.Currency, Amount: txn.Amount.Neg()})
		}
		if txn.ToHolderID != nil {
			effects = append(effects, Effect{HolderID: *txn.ToHolderID, Currency: txn.Currency, Amount: txn.Amount})
		}
		return effects
	case domain.KindExchange:
		effects := make([]Effect, 0, 2)
		if txn.FromHolderID != nil {
			effects = append(effects, Effect{HolderID: *txn.FromHolderID, Currency: txn.Currency, Amount: txn.Amount.Neg()})
		}
		if txn.ToHolderID != nil && txn.ToAmount != nil && txn.ToCurrency != nil {
			effects = append(effects, Effect{HolderID: *txn.ToHolderID, Currency: *txn.ToCurrency, Amount: *txn.ToAmount})
		}
		return effects
	}
	return nil
}
