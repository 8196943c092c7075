package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

func ptr[T any](v T) *T { return &v }

func actorWithRole(role domain.Role) domain.Actor {
	return domain.Actor{UserID: "user-" + string(role), Role: role, EffectiveRole: role}
}

// --- Mock ConfirmationRepository ---
type MockConfirmationRepository struct {
	mock.Mock
}

func (m *MockConfirmationRepository) FindConfirmationByID(ctx context.Context, confirmationID string) (*domain.Confirmation, error) {
	args := m.Called(ctx, confirmationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockConfirmationRepository) FindConfirmationByCode(ctx context.Context, code string) (*domain.Confirmation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockConfirmationRepository) ListConfirmations(ctx context.Context, filter domain.ConfirmationFilter) ([]domain.Confirmation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Confirmation), args.Error(1)
}

func (m *MockConfirmationRepository) CountConfirmationCodesWithPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockConfirmationRepository) SaveConfirmation(ctx context.Context, confirmation domain.Confirmation) error {
	args := m.Called(ctx, confirmation)
	return args.Error(0)
}

func (m *MockConfirmationRepository) UpsertConfirmationByCode(ctx context.Context, confirmation domain.Confirmation) (bool, error) {
	args := m.Called(ctx, confirmation)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfirmationRepository) UpdateConfirmationNotes(ctx context.Context, confirmationID, notes, userID string, now time.Time) error {
	args := m.Called(ctx, confirmationID, notes, userID, now)
	return args.Error(0)
}

func (m *MockConfirmationRepository) UpdateConfirmationPayload(ctx context.Context, confirmationID string, payload domain.Payload, userID string, now time.Time) error {
	args := m.Called(ctx, confirmationID, payload, userID, now)
	return args.Error(0)
}

func (m *MockConfirmationRepository) SetHotelsPaid(ctx context.Context, confirmationID string, paid bool, paidAt *time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, confirmationID, paid, paidAt, userID, now)
	return args.Error(0)
}

func (m *MockConfirmationRepository) ApplyClientPayment(ctx context.Context, change domain.ClientPaymentChange) (*domain.Transaction, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByConfirmations(ctx context.Context, confirmationIDs []string) ([]domain.Transaction, error) {
	args := m.Called(ctx, confirmationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveAutoGeneratedTransactions(ctx context.Context, txns []domain.Transaction) (int, error) {
	args := m.Called(ctx, txns)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, responsibleHolderID *string, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, status, responsibleHolderID, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, confirmationIDs []string) ([]domain.Expense, error) {
	args := m.Called(ctx, confirmationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpensesByAttachment(ctx context.Context, attachmentID string) error {
	args := m.Called(ctx, attachmentID)
	return args.Error(0)
}

// --- Mock HolderRepository ---
type MockHolderRepository struct {
	mock.Mock
}

func (m *MockHolderRepository) FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error) {
	args := m.Called(ctx, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holder), args.Error(1)
}

func (m *MockHolderRepository) ListHolders(ctx context.Context, includeInactive bool) ([]domain.Holder, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holder), args.Error(1)
}

func (m *MockHolderRepository) SaveHolder(ctx context.Context, holder domain.Holder) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}

func (m *MockHolderRepository) UpdateHolder(ctx context.Context, holder domain.Holder) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}

// --- Mock AttachmentRepository ---
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindAttachmentByID(ctx context.Context, attachmentID string) (*domain.ConfirmationAttachment, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConfirmationAttachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListAttachmentsByConfirmation(ctx context.Context, confirmationID string) ([]domain.ConfirmationAttachment, error) {
	args := m.Called(ctx, confirmationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConfirmationAttachment), args.Error(1)
}

func (m *MockAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.ConfirmationAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) DeleteAttachment(ctx context.Context, attachmentID string) error {
	args := m.Called(ctx, attachmentID)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock ProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetPreference(ctx context.Context, userID, key string) ([]byte, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProfileRepository) SavePreference(ctx context.Context, userID, key string, value []byte, now time.Time) error {
	args := m.Called(ctx, userID, key, value, now)
	return args.Error(0)
}

// --- Mock SavedHotelRepository ---
type MockSavedHotelRepository struct {
	mock.Mock
}

func (m *MockSavedHotelRepository) ListSavedHotels(ctx context.Context) ([]domain.SavedHotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedHotel), args.Error(1)
}

func (m *MockSavedHotelRepository) UpsertSavedHotel(ctx context.Context, hotel domain.SavedHotel) error {
	args := m.Called(ctx, hotel)
	return args.Error(0)
}

func (m *MockSavedHotelRepository) DeleteSavedHotel(ctx context.Context, hotelID string) error {
	args := m.Called(ctx, hotelID)
	return args.Error(0)
}

// --- Mock ImportTokenRepository ---
type MockImportTokenRepository struct {
	mock.Mock
}

func (m *MockImportTokenRepository) Create(ctx context.Context, token *domain.ImportToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockImportTokenRepository) FindByID(ctx context.Context, id string) (*domain.ImportToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportToken), args.Error(1)
}

func (m *MockImportTokenRepository) List(ctx context.Context) ([]domain.ImportToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportToken), args.Error(1)
}

func (m *MockImportTokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockImportTokenRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// --- Mock ObjectStorage ---
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) SignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// --- Mock JobEnqueuer ---
type MockJobEnqueuer struct {
	mock.Mock
}

func (m *MockJobEnqueuer) EnqueueBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockJobEnqueuer) EnqueueRecurringExpenses(ctx context.Context, arrival domain.DateRange) error {
	args := m.Called(ctx, arrival)
	return args.Error(0)
}

// --- Mock AttemptTracker ---
type MockAttemptTracker struct {
	mock.Mock
}

func (m *MockAttemptTracker) MarkAttempt(ctx context.Context, confirmationID string, category domain.Category) (bool, error) {
	args := m.Called(ctx, confirmationID, category)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptTracker) Release(ctx context.Context, confirmationID string, category domain.Category) error {
	args := m.Called(ctx, confirmationID, category)
	return args.Error(0)
}
