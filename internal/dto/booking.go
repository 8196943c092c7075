package dto

import "github.com/SscSPs/tour_ledger/internal/core/domain"

// HotelEmailInput overrides the e-mail generated for one hotel.
type HotelEmailInput struct {
	HotelName  string `json:"hotelName" binding:"required"`
	HotelEmail string `json:"hotelEmail" binding:"omitempty,email"`
	EmailBody  string `json:"emailBody"`
}

// CreateBookingRequest creates a confirmation and asks the hotels of its stays for rooms.
type CreateBookingRequest struct {
	Confirmation ConfirmationInput `json:"confirmation"`
	Emails       []HotelEmailInput `json:"emails" binding:"dive"`
}

// BookingRequestResponse reports the created confirmation and the queued e-mails.
type BookingRequestResponse struct {
	Confirmation domain.Confirmation `json:"confirmation"`
	Emails       []domain.HotelEmail `json:"emails"`
	// MissingEmails names hotels for which no address was supplied or saved.
	MissingEmails []string `json:"missingEmails"`
}

// SaveHotelRequest adds or updates an address-book entry.
type SaveHotelRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
}
