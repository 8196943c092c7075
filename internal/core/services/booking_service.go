package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	portsrepo "github.com/SscSPs/tour_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// codeAttempts bounds retries when two requests race for the same YYMMDD-NN code.
const codeAttempts = 3

type bookingService struct {
	BaseService
	confirmationRepo portsrepo.ConfirmationRepositoryFacade
	savedHotelRepo   portsrepo.SavedHotelRepositoryFacade
	jobs             ports.JobEnqueuer
}

// NewBookingService creates the booking request service.
func NewBookingService(confirmationRepo portsrepo.ConfirmationRepositoryFacade, savedHotelRepo portsrepo.SavedHotelRepositoryFacade, jobs ports.JobEnqueuer, cache ports.QueryCache) portssvc.BookingSvcFacade {
	return &bookingService{
		BaseService:      BaseService{Cache: cache},
		confirmationRepo: confirmationRepo,
		savedHotelRepo:   savedHotelRepo,
		jobs:             jobs,
	}
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

func (s *bookingService) CreateBookingRequest(ctx context.Context, actor domain.Actor, req dto.CreateBookingRequest) (*dto.BookingRequestResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermCreateBookingRequest); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	conf := req.Confirmation.ToConfirmation(uuid.NewString(), actor.UserID, now)
	conf.ConfirmationCode = strings.TrimSpace(conf.ConfirmationCode)
	explicitCode := conf.ConfirmationCode != ""
	if !explicitCode {
		// Placeholder so validation passes; the real code is assigned below.
		conf.ConfirmationCode = "pending"
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.saveWithCode(ctx, &conf, explicitCode); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, ports.EntityConfirmations, ports.EntityLedger)
	s.LogInfo(ctx, "Booking request created",
		slog.String("confirmation_id", conf.ID),
		slog.String("confirmation_code", conf.ConfirmationCode))

	saved, err := s.savedHotelRepo.ListSavedHotels(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load saved hotels, continuing with supplied addresses")
		saved = nil
	}
	emails, missing := collectHotelEmails(conf, req.Emails, saved)
	resp := &dto.BookingRequestResponse{Confirmation: conf, Emails: emails, MissingEmails: missing}

	if len(emails) == 0 {
		return resp, nil
	}
	if err := s.jobs.EnqueueBookingEmails(ctx, domain.BookingEmailRequest{ConfirmationCode: conf.ConfirmationCode, Emails: emails}); err != nil {
		s.LogError(ctx, err, "Failed to queue booking e-mails", slog.String("confirmation_code", conf.ConfirmationCode))
		return resp, apperrors.NewAppError(http.StatusBadGateway, "booking request created but e-mails could not be queued", err)
	}
	return resp, nil
}

// saveWithCode stores the confirmation, numbering it YYMMDD-NN by arrival date
// when no code was supplied.
func (s *bookingService) saveWithCode(ctx context.Context, conf *domain.Confirmation, explicitCode bool) error {
	if explicitCode {
		if err := s.confirmationRepo.SaveConfirmation(ctx, *conf); err != nil {
			return s.saveError(ctx, err, conf.ConfirmationCode)
		}
		return nil
	}

	arrival, _ := conf.Arrival()
	prefix := arrival.Format("060102") + "-"
	count, err := s.confirmationRepo.CountConfirmationCodesWithPrefix(ctx, prefix)
	if err != nil {
		s.LogError(ctx, err, "Failed to count confirmation codes", slog.String("prefix", prefix))
		return fmt.Errorf("failed to number confirmation: %w", err)
	}
	for attempt := 1; attempt <= codeAttempts; attempt++ {
		conf.ConfirmationCode = fmt.Sprintf("%s%02d", prefix, count+attempt)
		err = s.confirmationRepo.SaveConfirmation(ctx, *conf)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			break
		}
	}
	return s.saveError(ctx, err, conf.ConfirmationCode)
}

func (s *bookingService) saveError(ctx context.Context, err error, code string) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return apperrors.NewDuplicateError(fmt.Sprintf("confirmation code %s already exists", code))
	}
	s.LogError(ctx, err, "Failed to save confirmation", slog.String("confirmation_code", code))
	return fmt.Errorf("failed to save confirmation: %w", err)
}

// collectHotelEmails builds one e-mail per distinct hotel of the itinerary.
// Addresses come from the request first, then the saved address book. Supplied
// entries for hotels outside the itinerary are sent as given.
func collectHotelEmails(conf domain.Confirmation, supplied []dto.HotelEmailInput, saved []domain.SavedHotel) ([]domain.HotelEmail, []string) {
	caser := cases.Fold()
	key := func(s string) string { return caser.String(strings.TrimSpace(s)) }

	overrides := make(map[string]dto.HotelEmailInput, len(supplied))
	for _, in := range supplied {
		overrides[key(in.HotelName)] = in
	}
	book := make(map[string]string, len(saved))
	for _, h := range saved {
		book[key(h.Name)] = h.Email
	}

	emails := make([]domain.HotelEmail, 0)
	missing := make([]string, 0)
	seen := make(map[string]bool)
	for _, stay := range reconcile.ExtractStays(conf.Payload) {
		k := key(stay.Hotel)
		if seen[k] {
			continue
		}
		seen[k] = true

		email := domain.HotelEmail{HotelName: stay.Hotel, EmailBody: bookingEmailBody(conf, stay)}
		if in, ok := overrides[k]; ok {
			email.HotelEmail = strings.TrimSpace(in.HotelEmail)
			if strings.TrimSpace(in.EmailBody) != "" {
				email.EmailBody = in.EmailBody
			}
		}
		if email.HotelEmail == "" {
			email.HotelEmail = book[k]
		}
		if email.HotelEmail == "" {
			missing = append(missing, stay.Hotel)
			continue
		}
		emails = append(emails, email)
	}

	for _, in := range supplied {
		k := key(in.HotelName)
		if seen[k] || strings.TrimSpace(in.HotelEmail) == "" {
			continue
		}
		seen[k] = true
		emails = append(emails, domain.HotelEmail{HotelName: in.HotelName, HotelEmail: in.HotelEmail, EmailBody: in.EmailBody})
	}
	return emails, missing
}

func bookingEmailBody(conf domain.Confirmation, stay reconcile.Stay) string {
	checkOut := stay.EndDate
	if end, ok := domain.ParseDate(stay.EndDate); ok {
		checkOut = domain.FormatDisplayDate(end.AddDate(0, 0, 1))
	}
	guests := conf.Payload.Guests
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s team,\n\n", stay.Hotel)
	fmt.Fprintf(&b, "We would like to book rooms for %s, %d adult(s)", conf.MainClientName, guests.AdultsOrDefault())
	if guests.Children > 0 {
		fmt.Fprintf(&b, " and %d child(ren)", guests.Children)
	}
	fmt.Fprintf(&b, ".\nCheck-in: %s\nCheck-out: %s (%d night(s))\n", stay.StartDate, checkOut, stay.Nights)
	fmt.Fprintf(&b, "Our reference: %s\n\nPlease confirm availability.\n", conf.ConfirmationCode)
	return b.String()
}

func (s *bookingService) ListSavedHotels(ctx context.Context, actor domain.Actor) ([]domain.SavedHotel, error) {
	if err := s.Authorize(ctx, actor, domain.PermCreateBookingRequest); err != nil {
		return nil, err
	}
	hotels, err := s.savedHotelRepo.ListSavedHotels(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list saved hotels")
		return nil, fmt.Errorf("failed to list saved hotels: %w", err)
	}
	return hotels, nil
}

func (s *bookingService) SaveHotel(ctx context.Context, actor domain.Actor, req dto.SaveHotelRequest) (*domain.SavedHotel, error) {
	if err := s.Authorize(ctx, actor, domain.PermManageSavedHotels); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("hotel name and e-mail are required")
	}

	now := time.Now().UTC()
	hotel := domain.SavedHotel{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.savedHotelRepo.UpsertSavedHotel(ctx, hotel); err != nil {
		s.LogError(ctx, err, "Failed to save hotel", slog.String("name", name))
		return nil, fmt.Errorf("failed to save hotel: %w", err)
	}
	return &hotel, nil
}

func (s *bookingService) DeleteSavedHotel(ctx context.Context, actor domain.Actor, hotelID string) error {
	if err := s.Authorize(ctx, actor, domain.PermManageSavedHotels); err != nil {
		return err
	}
	if err := s.savedHotelRepo.DeleteSavedHotel(ctx, hotelID); err != nil {
		s.LogError(ctx, err, "Failed to delete saved hotel", slog.String("hotel_id", hotelID))
		return fmt.Errorf("failed to delete saved hotel: %w", err)
	}
	return nil
}
