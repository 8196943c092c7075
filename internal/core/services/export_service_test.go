package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// stubFinance serves a fixed ledger.
type stubFinance struct {
	ledger *dto.LedgerResponse
}

func (f stubFinance) GetLedger(context.Context, domain.Actor, dto.LedgerParams) (*dto.LedgerResponse, error) {
	return f.ledger, nil
}

func (f stubFinance) GenerateRecurringExpenses(context.Context, domain.Actor, domain.DateRange) (*dto.GenerateRecurringResponse, error) {
	return &dto.GenerateRecurringResponse{}, nil
}

func (f stubFinance) CurrentConverter(context.Context) (reconcile.Converter, domain.ExchangeRate, error) {
	return reconcile.Converter{}, domain.ExchangeRate{}, nil
}

type ExportServiceTestSuite struct {
	suite.Suite
	mockTxnRepo  *MockTransactionRepository
	mockConfRepo *MockConfirmationRepository
	service      portssvc.ExportSvc
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockConfRepo = new(MockConfirmationRepository)
	ledger := &dto.LedgerResponse{Rows: []reconcile.Row{{
		ConfirmationCode: "250301-01",
		MainClientName:   `Jane "JD" Doe`,
		ArrivalDate:      "01/03/2025",
		DepartureDate:    "05/03/2025",
		RevenueExpected:  decimal.NewFromInt(500),
		Received:         decimal.NewFromInt(200),
		Pending:          decimal.NewFromInt(300),
		Expenses:         decimal.RequireFromString("161.1"),
		Profit:           decimal.RequireFromString("338.9"),
		Status:           reconcile.RowOverdue,
	}}}
	suite.service = services.NewExportService(suite.mockTxnRepo, suite.mockConfRepo, stubFinance{ledger: ledger}, 100)
}

func (suite *ExportServiceTestSuite) TestExportTransactionsCSV_QuotesEveryField() {
	ctx := context.Background()
	txns := []domain.Transaction{
		{
			Date: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Kind: domain.KindOut, Category: "Museum tickets",
			Description: `Entry "Gergeti"`, Amount: decimal.NewFromInt(40), Currency: domain.CurrencyGEL,
			Status: domain.StatusConfirmed, PaymentMethod: "cash", ConfirmationID: ptr("c1"),
		},
		{
			Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Kind: domain.KindIn, Category: domain.CategoryTourPayment,
			Description: "Deposit", Amount: decimal.RequireFromString("99.5"), Currency: domain.CurrencyUSD,
			Status: domain.StatusPending,
		},
	}
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 100 && f.AfterDate == nil
	})).Return(txns, nil).Once()
	suite.mockConfRepo.On("ListConfirmations", ctx, domain.ConfirmationFilter{}).Return([]domain.Confirmation{*sampleConfirmation()}, nil).Once()

	var buf bytes.Buffer
	err := suite.service.ExportTransactionsCSV(ctx, actorWithRole(domain.RoleCoworker), dto.ListTransactionsParams{NextToken: "ignored"}, &buf)

	suite.Require().NoError(err)
	expected := `"Date","Confirmation","Type","Category","Description","Amount","Status","Payment Method"` + "\n" +
		`"12/03/2025","250301-01","out","Museum tickets","Entry ""Gergeti""","40.00 GEL","confirmed","cash"` + "\n" +
		`"11/03/2025","","in","tour_payment","Deposit","99.50 USD","pending",""` + "\n"
	suite.Equal(expected, buf.String())
}

func (suite *ExportServiceTestSuite) TestExportTransactionsCSV_UnlinkedSkipsConfirmationLookup() {
	ctx := context.Background()
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return([]domain.Transaction{}, nil).Once()

	var buf bytes.Buffer
	suite.Require().NoError(suite.service.ExportTransactionsCSV(ctx, actorWithRole(domain.RoleAdmin), dto.ListTransactionsParams{}, &buf))

	suite.Equal(`"Date","Confirmation","Type","Category","Description","Amount","Status","Payment Method"`+"\n", buf.String())
	suite.mockConfRepo.AssertNotCalled(suite.T(), "ListConfirmations", mock.Anything, mock.Anything)
}

func (suite *ExportServiceTestSuite) TestExportConfirmationsCSV() {
	var buf bytes.Buffer
	err := suite.service.ExportConfirmationsCSV(context.Background(), actorWithRole(domain.RoleAdmin), dto.LedgerParams{}, &buf)

	suite.Require().NoError(err)
	expected := `"Code","Client","Arrival","Departure","Revenue","Received","Pending","Expenses","Profit","Status"` + "\n" +
		`"250301-01","Jane ""JD"" Doe","01/03/2025","05/03/2025","500.00","200.00","300.00","161.10","338.90","overdue"` + "\n"
	suite.Equal(expected, buf.String())
}

func (suite *ExportServiceTestSuite) TestExport_WorkerForbidden() {
	var buf bytes.Buffer
	err := suite.service.ExportConfirmationsCSV(context.Background(), actorWithRole(domain.RoleWorker), dto.LedgerParams{}, &buf)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Zero(buf.Len())
}

func TestExportService(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
