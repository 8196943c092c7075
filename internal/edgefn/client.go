// Package edgefn calls the hosted functions that send booking-request e-mails.
package edgefn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
)

var (
	// ErrNotConfigured means no function URL was set.
	ErrNotConfigured = errors.New("edge function is not configured")
	// ErrRejected wraps 4xx answers; retrying the same request will not help.
	ErrRejected = errors.New("edge function rejected the request")
	// ErrUnavailable wraps transport failures and 5xx answers.
	ErrUnavailable = errors.New("edge function unavailable")
)

var _ ports.EmailSender = (*Client)(nil)

// Client posts JSON to {BaseURL}/{function}.
type Client struct {
	baseURL      string
	apiKey       string
	bookingEmail string
	httpClient   *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.EdgeFunctionConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		bookingEmail: cfg.BookingEmail,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SendBookingEmails sends the e-mails of one booking request in a single call.
func (c *Client) SendBookingEmails(ctx context.Context, req domain.BookingEmailRequest) error {
	if len(req.Emails) == 0 {
		return nil
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("edgefn: failed to encode request: %w", err)
	}
	_, err = c.invoke(ctx, c.bookingEmail, body)
	return err
}

func (c *Client) invoke(ctx context.Context, function string, body []byte) ([]byte, error) {
	if c.baseURL == "" || function == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+function, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("edgefn: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("edgefn: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		sentinel := ErrUnavailable
		if resp.StatusCode < 500 {
			sentinel = ErrRejected
		}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			if msg := firstNonEmpty(errResp.Error, errResp.Message); msg != "" {
				return nil, fmt.Errorf("%w: HTTP %d - %s", sentinel, resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("%w: HTTP %d", sentinel, resp.StatusCode)
	}
	return respBody, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
