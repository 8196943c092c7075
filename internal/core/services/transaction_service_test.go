package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockHolderRepo *MockHolderRepository
	mockConfRepo   *MockConfirmationRepository
	service        portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockHolderRepo = new(MockHolderRepository)
	suite.mockConfRepo = new(MockConfirmationRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockHolderRepo, suite.mockConfRepo, nil)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleCoworker)
	req := dto.CreateTransactionRequest{
		Date:           "12/03/2025",
		Kind:           domain.KindOut,
		Category:       domain.CategoryCustom,
		CustomCategory: "Museum tickets",
		Amount:         decimal.NewFromInt(40),
		Currency:       domain.CurrencyGEL,
		Status:         domain.StatusConfirmed,
		HolderID:       ptr("cash"),
		ConfirmationID: ptr("c1"),
	}
	suite.mockHolderRepo.On("FindHolderByID", ctx, "cash").Return(&domain.Holder{ID: "cash", IsActive: true}, nil).Once()
	suite.mockConfRepo.On("FindConfirmationByID", ctx, "c1").Return(sampleConfirmation(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Category == "Museum tickets" && t.Type == domain.TypeExpense &&
			t.ConfirmedAt != nil && *t.ConfirmedBy == actor.UserID && !t.IsAutoGenerated
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, actor, req)

	suite.Require().NoError(err)
	suite.NotEmpty(txn.ID)
	suite.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), txn.Date)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockHolderRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferToSameHolder() {
	req := dto.CreateTransactionRequest{
		Date:         "2025-03-12",
		Kind:         domain.KindTransfer,
		Category:     domain.CategoryTransferInternal,
		Amount:       decimal.NewFromInt(100),
		Currency:     domain.CurrencyUSD,
		FromHolderID: ptr("cash"),
		ToHolderID:   ptr("cash"),
	}

	_, err := suite.service.CreateTransaction(context.Background(), actorWithRole(domain.RoleAdmin), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InactiveHolder() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Date:     "2025-03-12",
		Kind:     domain.KindIn,
		Category: domain.CategoryDeposit,
		Amount:   decimal.NewFromInt(100),
		Currency: domain.CurrencyUSD,
		HolderID: ptr("old"),
	}
	suite.mockHolderRepo.On("FindHolderByID", ctx, "old").Return(&domain.Holder{ID: "old", IsActive: false}, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, actorWithRole(domain.RoleAdmin), req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrUnknownHolder)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_Paginates() {
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.Transaction{
		{ID: "t3", Date: day.AddDate(0, 0, 2)},
		{ID: "t2", Date: day.AddDate(0, 0, 1), AuditFields: domain.AuditFields{CreatedAt: day.Add(time.Hour)}},
		{ID: "t1", Date: day},
	}
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 3 && f.Kind != nil && *f.Kind == domain.KindOut
	})).Return(rows, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, actorWithRole(domain.RoleCoworker), dto.ListTransactionsParams{Kind: "out", Limit: 2})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 2)
	suite.Require().NotNil(resp.NextToken)

	cursor, err := pagination.DecodeToken(*resp.NextToken)
	suite.Require().NoError(err)
	suite.True(cursor.Date.Equal(rows[1].Date))
	suite.True(cursor.CreatedAt.Equal(rows[1].CreatedAt))
	suite.Equal("t2", cursor.ID)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_ResumesInsideSameBatch() {
	ctx := context.Background()
	arrival := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	batch := domain.AuditFields{CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	rows := []domain.Transaction{
		{ID: "txn-b", Date: arrival, Category: domain.CategoryBreakfast, AuditFields: batch},
		{ID: "txn-a", Date: arrival, Category: domain.CategoryDriver, AuditFields: batch},
	}
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.AfterDate == nil
	})).Return(rows, nil).Once()

	first, err := suite.service.ListTransactions(ctx, actorWithRole(domain.RoleAdmin), dto.ListTransactionsParams{Limit: 1})
	suite.Require().NoError(err)
	suite.Require().Len(first.Transactions, 1)
	suite.Equal("txn-b", first.Transactions[0].ID)
	suite.Require().NotNil(first.NextToken)

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.AfterDate != nil && f.AfterDate.Equal(arrival) &&
			f.AfterCreatedAt != nil && f.AfterCreatedAt.Equal(batch.CreatedAt) &&
			f.AfterID != nil && *f.AfterID == "txn-b"
	})).Return(rows[1:], nil).Once()

	second, err := suite.service.ListTransactions(ctx, actorWithRole(domain.RoleAdmin), dto.ListTransactionsParams{Limit: 1, NextToken: *first.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(second.Transactions, 1)
	suite.Equal("txn-a", second.Transactions[0].ID)
	suite.Nil(second.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_LastPage() {
	ctx := context.Background()
	cursor := pagination.EncodeToken(pagination.Cursor{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), ID: "t1"})
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.AfterDate != nil && f.AfterCreatedAt != nil && f.AfterID != nil && *f.AfterID == "t1"
	})).Return([]domain.Transaction{{ID: "t0"}}, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, actorWithRole(domain.RoleAdmin), dto.ListTransactionsParams{Limit: 10, NextToken: cursor})

	suite.Require().NoError(err)
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_BadToken() {
	_, err := suite.service.ListTransactions(context.Background(), actorWithRole(domain.RoleAdmin), dto.ListTransactionsParams{Limit: 10, NextToken: "%%%"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_VisitorForbidden() {
	_, err := suite.service.ListTransactions(context.Background(), actorWithRole(domain.RoleVisitor), dto.ListTransactionsParams{Limit: 10})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestConfirmTransaction_SetsResponsibleHolder() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleCoworker)
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "t1").Return(&domain.Transaction{ID: "t1", Status: domain.StatusPending}, nil).Once()
	suite.mockHolderRepo.On("FindHolderByID", ctx, "bank").Return(&domain.Holder{ID: "bank", IsActive: true}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", ctx, "t1", domain.StatusConfirmed, ptr("bank"), actor.UserID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.ConfirmTransaction(ctx, actor, "t1", dto.ConfirmTransactionRequest{ResponsibleHolderID: ptr("bank")})

	suite.Require().NoError(err)
	suite.True(txn.IsConfirmed())
	suite.Equal("bank", *txn.ResponsibleHolderID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUnconfirmTransaction() {
	ctx := context.Background()
	actor := actorWithRole(domain.RoleAdmin)
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "t1").Return(&domain.Transaction{
		ID: "t1", Status: domain.StatusConfirmed, ResponsibleHolderID: ptr("bank"),
	}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", ctx, "t1", domain.StatusPending, ptr("bank"), actor.UserID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.UnconfirmTransaction(ctx, actor, "t1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, txn.Status)
	suite.Nil(txn.ConfirmedAt)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_AutoGeneratedRejected() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "auto").Return(&domain.Transaction{ID: "auto", IsAutoGenerated: true}, nil).Once()

	err := suite.service.DeleteTransaction(ctx, actorWithRole(domain.RoleAdmin), "auto")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Manual() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "t1").Return(&domain.Transaction{ID: "t1"}, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, "t1").Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, actorWithRole(domain.RoleCoworker), "t1")

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
