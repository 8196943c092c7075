package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Endpoint:     endpoint,
		Bucket:       "attachments",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := validConfig("")
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing access key", func(t *testing.T) {
		cfg := validConfig("")
		cfg.AccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		assert.ErrorContains(t, err, "access key is required")
	})

	t.Run("missing secret key", func(t *testing.T) {
		cfg := validConfig("")
		cfg.SecretKey = ""
		_, err := NewS3ObjectStorage(cfg)
		assert.ErrorContains(t, err, "secret key is required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewS3ObjectStorage(validConfig("localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "attachments", s.Bucket())
		assert.Equal(t, defaultPresignExpiration, s.presignExpiration)
	})

	t.Run("presign option wins", func(t *testing.T) {
		s, err := NewS3ObjectStorage(validConfig("http://localhost:9000"), WithPresignExpiration(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, time.Minute, s.presignExpiration)
	})
}

func TestSignedURL(t *testing.T) {
	s, err := NewS3ObjectStorage(validConfig("http://localhost:9000"))
	require.NoError(t, err)

	url, err := s.SignedURL(context.Background(), "confirmations/c1/obj-invoice.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/attachments/confirmations/c1/obj-invoice.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")

	_, err = s.SignedURL(context.Background(), "")
	assert.Error(t, err)
}

type recordedRequest struct {
	method string
	path   string
}

func TestUploadAndDelete(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{method: r.Method, path: r.URL.Path})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3ObjectStorage(validConfig(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	// A plain io.Reader is not seekable and has to be buffered first.
	body := io.MultiReader(strings.NewReader("%PDF-1.4 "), strings.NewReader("invoice"))
	require.NoError(t, s.Upload(ctx, "confirmations/c1/obj-invoice.pdf", body, 0, "application/pdf"))
	require.NoError(t, s.Delete(ctx, "confirmations/c1/obj-invoice.pdf"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, recordedRequest{http.MethodPut, "/attachments/confirmations/c1/obj-invoice.pdf"}, seen[0])
	assert.Equal(t, recordedRequest{http.MethodDelete, "/attachments/confirmations/c1/obj-invoice.pdf"}, seen[1])
}

func TestUnavailable(t *testing.T) {
	var s Unavailable
	assert.ErrorIs(t, s.Upload(context.Background(), "k", strings.NewReader(""), 0, ""), ErrNotConfigured)
	_, err := s.SignedURL(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.Delete(context.Background(), "k"), ErrNotConfigured)
}
