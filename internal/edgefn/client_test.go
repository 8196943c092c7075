package edgefn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() domain.BookingEmailRequest {
	return domain.BookingEmailRequest{
		ConfirmationCode: "240510-01",
		Emails: []domain.HotelEmail{
			{HotelName: "Rooms Kazbegi", HotelEmail: "res@rooms.ge", EmailBody: "2 nights"},
		},
	}
}

func TestSendBookingEmails(t *testing.T) {
	var got domain.BookingEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send-booking-request", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"sent":1}`))
	}))
	defer srv.Close()

	c := NewClient(config.EdgeFunctionConfig{BaseURL: srv.URL + "/", APIKey: "secret", BookingEmail: "send-booking-request", Timeout: time.Second})
	require.NoError(t, c.SendBookingEmails(context.Background(), sampleRequest()))
	assert.Equal(t, sampleRequest(), got)
}

func TestSendBookingEmails_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		c := NewClient(config.EdgeFunctionConfig{BookingEmail: "send"})
		assert.ErrorIs(t, c.SendBookingEmails(context.Background(), sampleRequest()), ErrNotConfigured)
	})

	t.Run("nothing to send", func(t *testing.T) {
		c := NewClient(config.EdgeFunctionConfig{})
		assert.NoError(t, c.SendBookingEmails(context.Background(), domain.BookingEmailRequest{ConfirmationCode: "x"}))
	})

	t.Run("client error is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"missing hotelEmail"}`))
		}))
		defer srv.Close()

		c := NewClient(config.EdgeFunctionConfig{BaseURL: srv.URL, BookingEmail: "send"})
		err := c.SendBookingEmails(context.Background(), sampleRequest())
		assert.ErrorIs(t, err, ErrRejected)
		assert.ErrorContains(t, err, "missing hotelEmail")
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(config.EdgeFunctionConfig{BaseURL: srv.URL, BookingEmail: "send"})
		assert.ErrorIs(t, c.SendBookingEmails(context.Background(), sampleRequest()), ErrUnavailable)
	})
}
