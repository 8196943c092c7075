package domain

import "encoding/json"

// Profile is the back-office view of an authenticated user.
type Profile struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	AuditFields
}

// CalendarPrefsKey is the fixed preference key calendar view settings live under.
const CalendarPrefsKey = "calendar_view_prefs"

// Hotel filter modes for the calendar.
const (
	HotelFilterAll      = "all"
	HotelFilterSelected = "selected"
)

// Calendar content modes.
const (
	ContentModeHotel  = "hotel"
	ContentModeClient = "client"
)

// CalendarPrefs are the persisted calendar view settings of one user.
type CalendarPrefs struct {
	HotelFilterMode string   `json:"hotelFilterMode"`
	SelectedHotels  []string `json:"selectedHotels"`
	CheckInsOnly    bool     `json:"checkInsOnly"`
	ContentMode     string   `json:"contentMode"`
}

// DefaultCalendarPrefs is what a user sees before saving anything.
func DefaultCalendarPrefs() CalendarPrefs {
	return CalendarPrefs{
		HotelFilterMode: HotelFilterAll,
		SelectedHotels:  []string{},
		CheckInsOnly:    false,
		ContentMode:     ContentModeHotel,
	}
}

// ParseCalendarPrefs decodes a stored blob. Malformed JSON yields the defaults,
// and unknown enum values fall back field by field.
func ParseCalendarPrefs(raw []byte) CalendarPrefs {
	prefs := DefaultCalendarPrefs()
	if len(raw) == 0 {
		return prefs
	}
	var stored CalendarPrefs
	if err := json.Unmarshal(raw, &stored); err != nil {
		return prefs
	}
	if stored.HotelFilterMode == HotelFilterAll || stored.HotelFilterMode == HotelFilterSelected {
		prefs.HotelFilterMode = stored.HotelFilterMode
	}
	if stored.ContentMode == ContentModeHotel || stored.ContentMode == ContentModeClient {
		prefs.ContentMode = stored.ContentMode
	}
	if stored.SelectedHotels != nil {
		prefs.SelectedHotels = stored.SelectedHotels
	}
	prefs.CheckInsOnly = stored.CheckInsOnly
	return prefs
}

// SavedHotel is an address-book entry used when e-mailing booking requests.
type SavedHotel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	AuditFields
}
