package services

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/dto"
)

// BookingSvcFacade creates confirmations from booking requests and keeps the hotel address book.
type BookingSvcFacade interface {
	CreateBookingRequest(ctx context.Context, actor domain.Actor, req dto.CreateBookingRequest) (*dto.BookingRequestResponse, error)
	ListSavedHotels(ctx context.Context, actor domain.Actor) ([]domain.SavedHotel, error)
	SaveHotel(ctx context.Context, actor domain.Actor, req dto.SaveHotelRequest) (*domain.SavedHotel, error)
	DeleteSavedHotel(ctx context.Context, actor domain.Actor, hotelID string) error
}
