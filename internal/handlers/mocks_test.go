package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ProfileService ---
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) ResolveActor(ctx context.Context, userID string, viewAs string) (domain.Actor, error) {
	args := m.Called(ctx, userID, viewAs)
	return args.Get(0).(domain.Actor), args.Error(1)
}
func (m *MockProfileService) GetProfile(ctx context.Context, actor domain.Actor) (*dto.ProfileResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}
func (m *MockProfileService) GetCalendarPrefs(ctx context.Context, actor domain.Actor) (domain.CalendarPrefs, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(domain.CalendarPrefs), args.Error(1)
}
func (m *MockProfileService) SaveCalendarPrefs(ctx context.Context, actor domain.Actor, prefs domain.CalendarPrefs) (domain.CalendarPrefs, error) {
	args := m.Called(ctx, actor, prefs)
	return args.Get(0).(domain.CalendarPrefs), args.Error(1)
}

var _ portssvc.ProfileSvcFacade = (*MockProfileService)(nil)

// --- Mock ConfirmationService ---
type MockConfirmationService struct {
	mock.Mock
}

func (m *MockConfirmationService) ListConfirmations(ctx context.Context, actor domain.Actor, params dto.ListConfirmationsParams) ([]domain.Confirmation, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Confirmation), args.Error(1)
}
func (m *MockConfirmationService) GetConfirmation(ctx context.Context, actor domain.Actor, confirmationID string) (*domain.Confirmation, error) {
	args := m.Called(ctx, actor, confirmationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}
func (m *MockConfirmationService) UpdateNotes(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdateNotesRequest) (*domain.Confirmation, error) {
	args := m.Called(ctx, actor, confirmationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}
func (m *MockConfirmationService) UpdatePayload(ctx context.Context, actor domain.Actor, confirmationID string, req dto.UpdatePayloadRequest) (*domain.Confirmation, error) {
	args := m.Called(ctx, actor, confirmationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}
func (m *MockConfirmationService) ToggleClientPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleClientPaidRequest) (*dto.ClientPaidResponse, error) {
	args := m.Called(ctx, actor, confirmationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ClientPaidResponse), args.Error(1)
}
func (m *MockConfirmationService) ToggleHotelsPaid(ctx context.Context, actor domain.Actor, confirmationID string, req dto.ToggleHotelsPaidRequest) (*domain.Confirmation, error) {
	args := m.Called(ctx, actor, confirmationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

var _ portssvc.ConfirmationSvcFacade = (*MockConfirmationService)(nil)

// --- Mock BookingService ---
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBookingRequest(ctx context.Context, actor domain.Actor, req dto.CreateBookingRequest) (*dto.BookingRequestResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingRequestResponse), args.Error(1)
}
func (m *MockBookingService) ListSavedHotels(ctx context.Context, actor domain.Actor) ([]domain.SavedHotel, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedHotel), args.Error(1)
}
func (m *MockBookingService) SaveHotel(ctx context.Context, actor domain.Actor, req dto.SaveHotelRequest) (*domain.SavedHotel, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedHotel), args.Error(1)
}
func (m *MockBookingService) DeleteSavedHotel(ctx context.Context, actor domain.Actor, hotelID string) error {
	args := m.Called(ctx, actor, hotelID)
	return args.Error(0)
}

var _ portssvc.BookingSvcFacade = (*MockBookingService)(nil)

// --- Mock ImportService ---
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) CreateToken(ctx context.Context, actor domain.Actor, name string, expiresIn *time.Duration) (string, *domain.ImportToken, error) {
	args := m.Called(ctx, actor, name, expiresIn)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.ImportToken), args.Error(2)
}
func (m *MockImportService) ListTokens(ctx context.Context, actor domain.Actor) ([]domain.ImportToken, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportToken), args.Error(1)
}
func (m *MockImportService) RevokeToken(ctx context.Context, actor domain.Actor, tokenID string) error {
	args := m.Called(ctx, actor, tokenID)
	return args.Error(0)
}
func (m *MockImportService) ValidateKey(ctx context.Context, key string) (*domain.ImportToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportToken), args.Error(1)
}
func (m *MockImportService) ImportConfirmations(ctx context.Context, token domain.ImportToken, req dto.ImportConfirmationsRequest) (*dto.ImportConfirmationsResponse, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportConfirmationsResponse), args.Error(1)
}

var _ portssvc.ImportSvcFacade = (*MockImportService)(nil)

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportTransactionsCSV(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams, w io.Writer) error {
	args := m.Called(ctx, actor, params, w)
	return args.Error(0)
}
func (m *MockExportService) ExportConfirmationsCSV(ctx context.Context, actor domain.Actor, params dto.LedgerParams, w io.Writer) error {
	args := m.Called(ctx, actor, params, w)
	return args.Error(0)
}

var _ portssvc.ExportSvc = (*MockExportService)(nil)
