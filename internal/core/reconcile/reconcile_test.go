package reconcile_test

import (
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPolicy() reconcile.Policy {
	return reconcile.Policy{
		Meals: reconcile.MealsPolicy{
			Hotels:         []string{"Rooms Kazbegi", "Tbilisi Inn"},
			RatePer2Adults: decimal.NewFromInt(15),
		},
		Driver: reconcile.DriverPolicy{
			DailyRate:   decimal.NewFromInt(50),
			RatesByType: map[string]decimal.Decimal{"premium": decimal.NewFromInt(80)},
		},
	}
}

func testConverter() reconcile.Converter {
	return reconcile.NewConverter(domain.ExchangeRate{GelToUSD: dec("0.37"), UsdToGEL: dec("2.7")})
}

func itinerary(hotels ...string) domain.Payload {
	p := domain.Payload{Version: domain.PayloadVersion, DriverType: domain.DriverTypeNone}
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	for i, h := range hotels {
		p.Itinerary = append(p.Itinerary, domain.ItineraryDay{
			Date:  domain.FormatDisplayDate(start.AddDate(0, 0, i)),
			Hotel: h,
		})
	}
	return p
}

func TestConverter(t *testing.T) {
	conv := testConverter()
	assert.True(t, conv.ToGEL(decimal.NewFromInt(100), domain.CurrencyUSD).Equal(dec("270")))
	assert.True(t, conv.ToUSD(decimal.NewFromInt(100), domain.CurrencyGEL).Equal(dec("37")))
	assert.True(t, conv.ToUSD(decimal.NewFromInt(5), domain.CurrencyUSD).Equal(decimal.NewFromInt(5)))

	t.Run("non reciprocal rates drift without failing", func(t *testing.T) {
		drift := conv.RoundTripDrift(decimal.NewFromInt(100))
		assert.True(t, drift.Equal(dec("-0.1")), "got %s", drift)
		assert.False(t, conv.IsReciprocal(dec("0.0001")))
		assert.True(t, conv.IsReciprocal(dec("0.01")))
	})

	t.Run("zero rates do not panic", func(t *testing.T) {
		zero := reconcile.NewConverter(domain.ExchangeRate{})
		assert.NotPanics(t, func() { zero.RoundTripDrift(decimal.NewFromInt(10)) })
	})
}

func TestMealsPolicy(t *testing.T) {
	policy := testPolicy().Meals

	t.Run("three adults across two meals hotels", func(t *testing.T) {
		p := itinerary("Rooms Kazbegi", "rooms kazbegi", "Hotel Tbilisi Inn", "Other Place")
		p.Guests.Adults = 3
		assert.Equal(t, 3, policy.Nights(p))
		// ceil(3/2) * 15 * 3
		assert.True(t, policy.Expense(p).Equal(decimal.NewFromInt(90)))
	})

	t.Run("adults default to two", func(t *testing.T) {
		p := itinerary("ROOMS KAZBEGI")
		assert.True(t, policy.Expense(p).Equal(decimal.NewFromInt(15)))
	})

	t.Run("no meals hotels", func(t *testing.T) {
		assert.True(t, policy.Expense(itinerary("Elsewhere", "")).IsZero())
	})
}

func TestDriverPolicy(t *testing.T) {
	policy := testPolicy().Driver

	c := domain.Confirmation{TotalDays: 4, Payload: domain.Payload{DriverType: "standard"}}
	assert.True(t, policy.Fee(c).Equal(decimal.NewFromInt(200)))

	c.Payload.DriverType = "Premium"
	assert.True(t, policy.Fee(c).Equal(decimal.NewFromInt(320)))

	c.Payload.DriverType = domain.DriverTypeNone
	assert.True(t, policy.Fee(c).IsZero())

	fromItinerary := domain.Confirmation{Payload: itinerary("A", "B", "C")}
	fromItinerary.Payload.DriverType = ""
	assert.Equal(t, 3, policy.Days(fromItinerary))
}

func TestPlanRecurringExpenses(t *testing.T) {
	policy := testPolicy()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	conf := domain.Confirmation{
		ID:          "c1",
		ArrivalDate: "10/05/2024",
		Price:       decimal.NewFromInt(1000),
		Payload:     itinerary("Rooms Kazbegi", "Rooms Kazbegi"),
	}
	conf.Payload.Guests.Adults = 3

	t.Run("creates one confirmed auto-generated meals entry", func(t *testing.T) {
		planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{conf}, Now: now, UserID: domain.SystemUserID,
		}, policy)
		require.Len(t, planned, 1)
		txn := planned[0]
		assert.Equal(t, domain.CategoryBreakfast, txn.Category)
		assert.Equal(t, domain.KindOut, txn.Kind)
		assert.Equal(t, domain.StatusConfirmed, txn.Status)
		assert.True(t, txn.IsAutoGenerated)
		assert.Equal(t, domain.CurrencyGEL, txn.Currency)
		assert.True(t, txn.Amount.Equal(decimal.NewFromInt(60)))
		assert.True(t, txn.BelongsTo("c1"))
		assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), txn.Date)
		assert.NoError(t, txn.Validate())
	})

	t.Run("repeated runs never duplicate", func(t *testing.T) {
		var ledger []domain.Transaction
		for i := 0; i < 5; i++ {
			planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
				Confirmations: []domain.Confirmation{conf}, Transactions: ledger, Now: now,
			}, policy)
			ledger = append(ledger, planned...)
		}
		assert.Len(t, ledger, 1)
	})

	t.Run("existing manual breakfast entry blocks generation", func(t *testing.T) {
		manual := domain.Transaction{Kind: domain.KindOut, Category: domain.CategoryBreakfast, ConfirmationID: ptr("c1"), Status: domain.StatusPending}
		planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{conf}, Transactions: []domain.Transaction{manual}, Now: now,
		}, policy)
		assert.Empty(t, planned)
	})

	t.Run("attempted confirmations are skipped", func(t *testing.T) {
		planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{conf},
			Attempted:     func(string, domain.Category) bool { return true },
			Now:           now,
		}, policy)
		assert.Empty(t, planned)
	})

	t.Run("driver fee is planned alongside meals", func(t *testing.T) {
		withDriver := conf
		withDriver.Payload.DriverType = "standard"
		planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{withDriver}, Now: now,
		}, policy)
		require.Len(t, planned, 2)
		assert.Equal(t, domain.CategoryDriver, planned[1].Category)
		assert.True(t, planned[1].Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("out of range and quarantined confirmations are skipped", func(t *testing.T) {
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		quarantined := conf
		quarantined.ID = "c2"
		quarantined.PayloadQuarantined = true
		planned := reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{conf},
			Arrival:       domain.DateRange{From: &from},
			Now:           now,
		}, policy)
		assert.Empty(t, planned)

		planned = reconcile.PlanRecurringExpenses(reconcile.PlanInput{
			Confirmations: []domain.Confirmation{quarantined}, Now: now,
		}, policy)
		assert.Empty(t, planned)
	})
}

func TestBuildRows(t *testing.T) {
	policy := testPolicy()
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("end to end reconciliation", func(t *testing.T) {
		conf := domain.Confirmation{
			ID: "c1", ConfirmationCode: "240510-01", ArrivalDate: "10/05/2024",
			Price: decimal.NewFromInt(1000), Payload: itinerary("Somewhere"),
		}
		txns := []domain.Transaction{
			{Kind: domain.KindIn, Status: domain.StatusConfirmed, Amount: decimal.NewFromInt(400), Currency: domain.CurrencyUSD, ConfirmationID: ptr("c1"), ResponsibleHolderID: ptr("h1")},
			{Kind: domain.KindOut, Status: domain.StatusConfirmed, Amount: decimal.NewFromInt(150), Currency: domain.CurrencyUSD, ConfirmationID: ptr("c1")},
			{Kind: domain.KindIn, Status: domain.StatusPending, Amount: decimal.NewFromInt(999), Currency: domain.CurrencyUSD, ConfirmationID: ptr("c1")},
		}
		rows := reconcile.BuildRows(reconcile.RowsInput{
			Confirmations: []domain.Confirmation{conf}, Transactions: txns,
			Converter: testConverter(), Today: today,
		}, policy)
		require.Len(t, rows, 1)
		row := rows[0]
		assert.True(t, row.Received.Equal(decimal.NewFromInt(400)))
		assert.True(t, row.Pending.Equal(decimal.NewFromInt(600)))
		assert.True(t, row.Expenses.GreaterThanOrEqual(decimal.NewFromInt(150)))
		assert.True(t, row.Profit.Equal(decimal.NewFromInt(1000).Sub(row.Expenses)))
		assert.Equal(t, "h1", *row.ResponsibleHolderID)
		assert.Equal(t, reconcile.RowOverdue, row.Status)
	})

	t.Run("zero and negative prices are excluded everywhere", func(t *testing.T) {
		rows := reconcile.BuildRows(reconcile.RowsInput{
			Confirmations: []domain.Confirmation{
				{ID: "free", ArrivalDate: "10/05/2024", Price: decimal.Zero},
				{ID: "neg", ArrivalDate: "10/05/2024", Price: decimal.NewFromInt(-5)},
				{ID: "paid", ArrivalDate: "10/05/2024", Price: decimal.NewFromInt(10), ClientPaid: true},
			},
			Converter: testConverter(), Today: today,
		}, policy)
		require.Len(t, rows, 1)
		assert.Equal(t, "paid", rows[0].ConfirmationID)
		assert.Equal(t, reconcile.RowPaid, rows[0].Status)

		summary := reconcile.Summarize(rows)
		assert.Equal(t, 1, summary.Confirmations)
		assert.True(t, summary.RevenueExpected.Equal(decimal.NewFromInt(10)))
	})

	t.Run("projected meals count until materialised", func(t *testing.T) {
		conf := domain.Confirmation{ID: "c1", ArrivalDate: "10/07/2024", Price: decimal.NewFromInt(500), Payload: itinerary("Tbilisi Inn", "Tbilisi Inn")}
		input := reconcile.RowsInput{Confirmations: []domain.Confirmation{conf}, Converter: testConverter(), Today: today}

		rows := reconcile.BuildRows(input, policy)
		require.Len(t, rows, 1)
		// 30 GEL at 0.37
		assert.True(t, rows[0].ProjectedMeals.Equal(dec("11.1")))
		assert.True(t, rows[0].Expenses.Equal(dec("11.1")))
		assert.Equal(t, reconcile.RowPending, rows[0].Status)

		input.Transactions = []domain.Transaction{{
			Kind: domain.KindOut, Status: domain.StatusConfirmed, Category: domain.CategoryBreakfast,
			Amount: decimal.NewFromInt(30), Currency: domain.CurrencyGEL, ConfirmationID: ptr("c1"), IsAutoGenerated: true,
		}}
		rows = reconcile.BuildRows(input, policy)
		assert.True(t, rows[0].ProjectedMeals.IsZero())
		assert.True(t, rows[0].Expenses.Equal(dec("11.1")), "materialised meals replace the projection")
	})

	t.Run("invoice expenses are added in USD", func(t *testing.T) {
		conf := domain.Confirmation{ID: "c1", ArrivalDate: "10/07/2024", Price: decimal.NewFromInt(500)}
		rows := reconcile.BuildRows(reconcile.RowsInput{
			Confirmations: []domain.Confirmation{conf},
			Expenses:      []domain.Expense{{Amount: decimal.NewFromInt(100), Currency: domain.CurrencyGEL, ConfirmationID: ptr("c1")}},
			Converter:     testConverter(), Today: today,
		}, policy)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].InvoiceExpenses.Equal(decimal.NewFromInt(37)))
		assert.True(t, rows[0].Profit.Equal(decimal.NewFromInt(463)))
	})

	t.Run("arrival filter drops unparseable dates and sorts by arrival", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := reconcile.BuildRows(reconcile.RowsInput{
			Confirmations: []domain.Confirmation{
				{ID: "late", ConfirmationCode: "B", ArrivalDate: "20/05/2024", Price: decimal.NewFromInt(1)},
				{ID: "bad", ConfirmationCode: "C", ArrivalDate: "2024/05", Price: decimal.NewFromInt(1)},
				{ID: "early", ConfirmationCode: "A", ArrivalDate: "2024-05-01", Price: decimal.NewFromInt(1)},
			},
			Arrival:   domain.DateRange{From: &from},
			Converter: testConverter(), Today: today,
		}, policy)
		require.Len(t, rows, 2)
		assert.Equal(t, "early", rows[0].ConfirmationID)
		assert.Equal(t, "late", rows[1].ConfirmationID)
	})
}

func TestHolderBalances(t *testing.T) {
	holders := []domain.Holder{{ID: "h1", Name: "Cash box", Type: domain.HolderCash}, {ID: "h2", Name: "Bank", Type: domain.HolderBank}}
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		{Date: d1, Kind: domain.KindIn, Status: domain.StatusConfirmed, Amount: decimal.NewFromInt(100), Currency: domain.CurrencyUSD, HolderID: ptr("h1")},
		{Date: d2, Kind: domain.KindIn, Status: domain.StatusConfirmed, Amount: decimal.NewFromInt(50), Currency: domain.CurrencyGEL, HolderID: ptr("h1")},
		{Date: d1, Kind: domain.KindOut, Status: domain.StatusConfirmed, Amount: decimal.NewFromInt(20), Currency: domain.CurrencyUSD, HolderID: ptr("h1")},
		{Date: d1, Kind: domain.KindIn, Status: domain.StatusPending, Amount: decimal.NewFromInt(7), Currency: domain.CurrencyUSD, HolderID: ptr("h1")},
		{Date: d1, Kind: domain.KindTransfer, Status: domain.StatusPending, Amount: decimal.NewFromInt(5), Currency: domain.CurrencyGEL, FromHolderID: ptr("h1"), ToHolderID: ptr("h2")},
	}

	balances := reconcile.HolderBalances(holders, txns)
	require.Len(t, balances, 2)

	h1 := balances[0]
	assert.Equal(t, "h1", h1.HolderID)
	assert.True(t, h1.BalanceUSD.Equal(decimal.NewFromInt(80)))
	assert.True(t, h1.BalanceGEL.Equal(decimal.NewFromInt(50)))
	assert.True(t, h1.PendingInUSD.Equal(decimal.NewFromInt(7)))
	assert.True(t, h1.PendingOutGEL.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, h1.LastActivity)
	assert.Equal(t, d2, *h1.LastActivity)

	h2 := balances[1]
	assert.True(t, h2.BalanceGEL.IsZero())
	assert.True(t, h2.PendingInGEL.Equal(decimal.NewFromInt(5)))

	combined := reconcile.CombinedBalanceUSD(balances, testConverter())
	// 80 + 50*0.37
	assert.True(t, combined.Equal(dec("98.5")), "got %s", combined)
}
