package reconcile

import (
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// AttemptChecker reports whether generation was already attempted for the
// confirmation and category, before the store reflects it.
type AttemptChecker func(confirmationID string, category domain.Category) bool

// PlanInput is the data the recurring-expense planner works on.
type PlanInput struct {
	Confirmations []domain.Confirmation
	Transactions  []domain.Transaction
	Arrival       domain.DateRange
	Attempted     AttemptChecker
	Now           time.Time
	UserID        string
}

// PlanRecurringExpenses returns the transactions to insert so that every
// confirmation in range carries its meals and driver costs exactly once.
// A confirmation is skipped for a category when any transaction of that
// category is already linked to it, or when an attempt is already recorded.
func PlanRecurringExpenses(in PlanInput, policy Policy) []domain.Transaction {
	existing := indexCategories(in.Transactions)
	planned := make([]domain.Transaction, 0)

	for _, c := range in.Confirmations {
		arrival, ok := c.Arrival()
		if !in.Arrival.Contains(arrival, ok) {
			continue
		}
		for _, cost := range policy.DerivedCosts(c) {
			if existing.has(c.ID, cost.Category) {
				continue
			}
			if in.Attempted != nil && in.Attempted(c.ID, cost.Category) {
				continue
			}
			date := in.Now
			if ok {
				date = arrival
			}
			planned = append(planned, newAutoExpense(c.ID, cost, date, in.Now, in.UserID))
		}
	}
	return planned
}

func newAutoExpense(confirmationID string, cost DerivedCost, date, now time.Time, userID string) domain.Transaction {
	cid := confirmationID
	confirmedAt := now
	confirmedBy := userID
	return domain.Transaction{
		ID:              uuid.NewString(),
		Date:            domain.DateOnly(date),
		Kind:            domain.KindOut,
		Type:            domain.LegacyTypeFor(domain.KindOut),
		Category:        cost.Category,
		Description:     cost.Description,
		Amount:          cost.Amount,
		Currency:        cost.Currency,
		Status:          domain.StatusConfirmed,
		ConfirmationID:  &cid,
		IsAutoGenerated: true,
		ConfirmedAt:     &confirmedAt,
		ConfirmedBy:     &confirmedBy,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
}
