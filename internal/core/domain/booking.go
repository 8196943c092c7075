package domain

// HotelEmail is one outbound booking-request e-mail.
type HotelEmail struct {
	HotelName  string `json:"hotelName"`
	HotelEmail string `json:"hotelEmail"`
	EmailBody  string `json:"emailBody"`
}

// BookingEmailRequest is the single call made to the e-mail function after a
// booking request creates a confirmation.
type BookingEmailRequest struct {
	ConfirmationCode string       `json:"confirmationCode"`
	Emails           []HotelEmail `json:"emails"`
}
