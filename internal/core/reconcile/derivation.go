package reconcile

import (
	"fmt"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Policy bundles the recurring-cost rules. Meals and driver fees follow the same
// lifecycle: projected into rows until a transaction of their category exists,
// and materialised by PlanRecurringExpenses.
type Policy struct {
	Meals  MealsPolicy
	Driver DriverPolicy
}

// DerivedCost is one recurring cost a confirmation implies.
type DerivedCost struct {
	Category    domain.Category
	Amount      decimal.Decimal
	Currency    domain.Currency
	Description string
}

// DerivedCosts lists the non-zero recurring costs of a confirmation. Quarantined
// payloads imply nothing.
func (p Policy) DerivedCosts(c domain.Confirmation) []DerivedCost {
	if c.PayloadQuarantined {
		return nil
	}
	costs := make([]DerivedCost, 0, 2)
	if meals := p.Meals.Expense(c.Payload); meals.IsPositive() {
		costs = append(costs, DerivedCost{
			Category:    domain.CategoryBreakfast,
			Amount:      meals,
			Currency:    domain.CurrencyGEL,
			Description: fmt.Sprintf("Meals: %d night(s) at meals hotels, %d adult(s)", p.Meals.Nights(c.Payload), c.Payload.Guests.AdultsOrDefault()),
		})
	}
	if fee := p.Driver.Fee(c); fee.IsPositive() {
		costs = append(costs, DerivedCost{
			Category:    domain.CategoryDriver,
			Amount:      fee,
			Currency:    domain.CurrencyUSD,
			Description: fmt.Sprintf("Driver: %d day(s)", p.Driver.Days(c)),
		})
	}
	return costs
}

// categoryIndex records which categories already have a transaction per confirmation.
type categoryIndex map[string]map[domain.Category]bool

func indexCategories(txns []domain.Transaction) categoryIndex {
	idx := make(categoryIndex)
	for _, t := range txns {
		if t.ConfirmationID == nil {
			continue
		}
		cats, ok := idx[*t.ConfirmationID]
		if !ok {
			cats = make(map[domain.Category]bool)
			idx[*t.ConfirmationID] = cats
		}
		cats[t.Category] = true
	}
	return idx
}

func (idx categoryIndex) has(confirmationID string, cat domain.Category) bool {
	return idx[confirmationID][cat]
}
