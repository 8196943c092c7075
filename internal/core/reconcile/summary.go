package reconcile

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Summary totals a set of rows.
type Summary struct {
	Confirmations   int             `json:"confirmations"`
	RevenueExpected decimal.Decimal `json:"revenueExpected"`
	Received        decimal.Decimal `json:"received"`
	Pending         decimal.Decimal `json:"pending"`
	Expenses        decimal.Decimal `json:"expenses"`
	Profit          decimal.Decimal `json:"profit"`
	Paid            int             `json:"paid"`
	Overdue         int             `json:"overdue"`
	PendingCount    int             `json:"pendingCount"`
}

// Summarize sums the rows. Excluded confirmations never reach rows, so they never
// reach totals either.
func Summarize(rows []Row) Summary {
	s := Summary{
		RevenueExpected: decimal.Zero,
		Received:        decimal.Zero,
		Pending:         decimal.Zero,
		Expenses:        decimal.Zero,
		Profit:          decimal.Zero,
	}
	for _, r := range rows {
		s.Confirmations++
		s.RevenueExpected = s.RevenueExpected.Add(r.RevenueExpected)
		s.Received = s.Received.Add(r.Received)
		s.Pending = s.Pending.Add(r.Pending)
		s.Expenses = s.Expenses.Add(r.Expenses)
		s.Profit = s.Profit.Add(r.Profit)
		switch r.Status {
		case RowPaid:
			s.Paid++
		case RowOverdue:
			s.Overdue++
		default:
			s.PendingCount++
		}
	}
	return s
}

// CombinedBalanceUSD nets every holder's USD and GEL balances into one USD figure.
func CombinedBalanceUSD(balances []domain.HolderBalance, conv Converter) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.BalanceUSD).Add(conv.ToUSD(b.BalanceGEL, domain.CurrencyGEL))
	}
	return money(total)
}
