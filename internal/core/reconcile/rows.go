package reconcile

import (
	"sort"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RowStatus is the payment state shown for a confirmation.
type RowStatus string

const (
	RowPaid    RowStatus = "paid"
	RowOverdue RowStatus = "overdue"
	RowPending RowStatus = "pending"
)

// ClassifyStatus returns paid when the client paid, overdue when the arrival date
// is before today, and pending otherwise. Unparseable arrivals are pending.
func ClassifyStatus(c domain.Confirmation, today time.Time) RowStatus {
	if c.ClientPaid {
		return RowPaid
	}
	if arrival, ok := c.Arrival(); ok && arrival.Before(domain.DateOnly(today)) {
		return RowOverdue
	}
	return RowPending
}

// Row is the reconciled finance view of one confirmation. Amounts are USD.
type Row struct {
	ConfirmationID      string          `json:"confirmationId"`
	ConfirmationCode    string          `json:"confirmationCode"`
	MainClientName      string          `json:"mainClientName"`
	ArrivalDate         string          `json:"arrivalDate"`
	DepartureDate       string          `json:"departureDate"`
	RevenueExpected     decimal.Decimal `json:"revenueExpected"`
	Received            decimal.Decimal `json:"received"`
	Expenses            decimal.Decimal `json:"expenses"`
	Profit              decimal.Decimal `json:"profit"`
	Pending             decimal.Decimal `json:"pending"`
	TransactionExpenses decimal.Decimal `json:"transactionExpenses"`
	InvoiceExpenses     decimal.Decimal `json:"invoiceExpenses"`
	ProjectedMeals      decimal.Decimal `json:"projectedMeals"`
	ProjectedDriver     decimal.Decimal `json:"projectedDriver"`
	ResponsibleHolderID *string         `json:"responsibleHolderId,omitempty"`
	Status              RowStatus       `json:"status"`
	ClientPaid          bool            `json:"clientPaid"`
	HotelsPaid          bool            `json:"hotelsPaid"`
}

// RowsInput is everything BuildRows needs. Transactions and Expenses may contain
// entries for confirmations outside Confirmations; they are ignored.
type RowsInput struct {
	Confirmations []domain.Confirmation
	Transactions  []domain.Transaction
	Expenses      []domain.Expense
	Arrival       domain.DateRange
	Converter     Converter
	Today         time.Time
}

// BuildRows reconciles every confirmation in the arrival range with a positive
// price. Meals and driver costs are projected only while no transaction of their
// category exists, so a materialised entry is never counted twice.
func BuildRows(in RowsInput, policy Policy) []Row {
	txnsByConf := make(map[string][]domain.Transaction)
	for _, t := range in.Transactions {
		if t.ConfirmationID != nil {
			txnsByConf[*t.ConfirmationID] = append(txnsByConf[*t.ConfirmationID], t)
		}
	}
	expensesByConf := make(map[string][]domain.Expense)
	for _, e := range in.Expenses {
		if e.ConfirmationID != nil {
			expensesByConf[*e.ConfirmationID] = append(expensesByConf[*e.ConfirmationID], e)
		}
	}
	existing := indexCategories(in.Transactions)

	rows := make([]Row, 0, len(in.Confirmations))
	for _, c := range in.Confirmations {
		if !c.Price.IsPositive() {
			continue
		}
		if !in.Arrival.ContainsRaw(c.ArrivalDate) {
			continue
		}

		row := Row{
			ConfirmationID:   c.ID,
			ConfirmationCode: c.ConfirmationCode,
			MainClientName:   c.MainClientName,
			ArrivalDate:      c.ArrivalDate,
			DepartureDate:    c.DepartureDate,
			RevenueExpected:  c.Price,
			Received:         decimal.Zero,
			Status:           ClassifyStatus(c, in.Today),
			ClientPaid:       c.ClientPaid,
			HotelsPaid:       c.IsPaid,
		}

		txnExpenses := decimal.Zero
		for _, t := range txnsByConf[c.ID] {
			if t.Kind == domain.KindIn && row.ResponsibleHolderID == nil && t.ResponsibleHolderID != nil {
				id := *t.ResponsibleHolderID
				row.ResponsibleHolderID = &id
			}
			if !t.IsConfirmed() {
				continue
			}
			switch t.Kind {
			case domain.KindIn:
				row.Received = row.Received.Add(in.Converter.ToUSD(t.Amount, t.Currency))
			case domain.KindOut:
				txnExpenses = txnExpenses.Add(in.Converter.ToUSD(t.Amount, t.Currency))
			}
		}

		invoiceExpenses := decimal.Zero
		for _, e := range expensesByConf[c.ID] {
			invoiceExpenses = invoiceExpenses.Add(in.Converter.ToUSD(e.Amount, e.Currency))
		}

		meals, driver := decimal.Zero, decimal.Zero
		for _, cost := range policy.DerivedCosts(c) {
			if existing.has(c.ID, cost.Category) {
				continue
			}
			usd := in.Converter.ToUSD(cost.Amount, cost.Currency)
			switch cost.Category {
			case domain.CategoryBreakfast:
				meals = usd
			case domain.CategoryDriver:
				driver = usd
			}
		}

		expenses := txnExpenses.Add(invoiceExpenses).Add(meals).Add(driver)
		row.Received = money(row.Received)
		row.TransactionExpenses = money(txnExpenses)
		row.InvoiceExpenses = money(invoiceExpenses)
		row.ProjectedMeals = money(meals)
		row.ProjectedDriver = money(driver)
		row.Expenses = money(expenses)
		row.Profit = money(c.Price.Sub(expenses))
		row.Pending = money(c.Price.Sub(row.Received))
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ai, okI := domain.ParseDate(rows[i].ArrivalDate)
		aj, okJ := domain.ParseDate(rows[j].ArrivalDate)
		if okI != okJ {
			return okI
		}
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return rows[i].ConfirmationCode < rows[j].ConfirmationCode
	})
	return rows
}
