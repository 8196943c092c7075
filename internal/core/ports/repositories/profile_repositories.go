package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// ProfileReader defines read operations for user profiles and their preferences
type ProfileReader interface {
	FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error)

	// GetPreference returns the raw blob stored under key, or nil when nothing is stored.
	GetPreference(ctx context.Context, userID, key string) ([]byte, error)
}

// ProfileWriter defines write operations for user preferences
type ProfileWriter interface {
	SavePreference(ctx context.Context, userID, key string, value []byte, now time.Time) error
}

// ProfileRepositoryFacade combines all profile-related repository interfaces
type ProfileRepositoryFacade interface {
	ProfileReader
	ProfileWriter
}

// SavedHotelRepositoryFacade manages the hotel e-mail address book.
type SavedHotelRepositoryFacade interface {
	ListSavedHotels(ctx context.Context) ([]domain.SavedHotel, error)

	// UpsertSavedHotel inserts or updates by case-insensitive hotel name.
	UpsertSavedHotel(ctx context.Context, hotel domain.SavedHotel) error
	DeleteSavedHotel(ctx context.Context, hotelID string) error
}
