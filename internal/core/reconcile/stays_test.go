package reconcile_test

import (
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStays(t *testing.T) {
	stays := reconcile.ExtractStays(itinerary("Tbilisi Inn", "tbilisi inn", "Rooms Kazbegi", "", "Tbilisi Inn"))
	require.Len(t, stays, 3)

	assert.Equal(t, "1_tbilisi-inn", stays[0].Key)
	assert.Equal(t, 2, stays[0].Nights)
	assert.Equal(t, "10/05/2024", stays[0].StartDate)
	assert.Equal(t, "11/05/2024", stays[0].EndDate)
	assert.Equal(t, "2_rooms-kazbegi", stays[1].Key)
	assert.Equal(t, "3_tbilisi-inn", stays[2].Key)
}

func TestMatchAttachments(t *testing.T) {
	stays := reconcile.ExtractStays(itinerary("Tbilisi Inn", "Rooms Kazbegi", "Tbilisi Inn"))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	att := func(id, name string, kind domain.AttachmentKind, minutes int) domain.ConfirmationAttachment {
		return domain.ConfirmationAttachment{ID: id, ConfirmationID: "c1", Kind: kind, FileName: name, UploadedAt: base.Add(time.Duration(minutes) * time.Minute)}
	}

	t.Run("stored map wins and stale entries are dropped", func(t *testing.T) {
		a := att("a1", "Tbilisi Inn.pdf", domain.AttachmentInvoice, 0)
		res := reconcile.MatchAttachments(stays, []domain.ConfirmationAttachment{a}, map[string]string{"a1": "3_tbilisi-inn", "gone": "1_tbilisi-inn"}, true)
		assert.Equal(t, map[string]string{"a1": "3_tbilisi-inn"}, res.Map)
		assert.True(t, res.Changed)
	})

	t.Run("explicit stay key and path key", func(t *testing.T) {
		explicit := att("a1", "whatever.pdf", domain.AttachmentInvoice, 0)
		explicit.StayKey = ptr("2_rooms-kazbegi")
		pathed := att("a2", "other.pdf", domain.AttachmentInvoice, 1)
		pathed.StoragePath = domain.AttachmentPath("c1", "3_tbilisi-inn", "obj", "other.pdf")

		res := reconcile.MatchAttachments(stays, []domain.ConfirmationAttachment{explicit, pathed}, nil, false)
		assert.Equal(t, "2_rooms-kazbegi", res.Map["a1"])
		assert.Equal(t, "3_tbilisi-inn", res.Map["a2"])
		assert.Empty(t, res.Unmatched)
	})

	t.Run("stay number in file name", func(t *testing.T) {
		a := att("a1", "Tbilisi_Inn (Stay 2).pdf", domain.AttachmentInvoice, 0)
		res := reconcile.MatchAttachments(stays, []domain.ConfirmationAttachment{a}, nil, true)
		assert.Equal(t, "3_tbilisi-inn", res.Map["a1"])
	})

	t.Run("ambiguous hotel names are dealt out oldest first", func(t *testing.T) {
		second := att("late", "tbilisi-inn invoice.pdf", domain.AttachmentInvoice, 10)
		first := att("early", "Tbilisi Inn invoice.pdf", domain.AttachmentInvoice, 1)
		order := att("po", "Tbilisi Inn payment.pdf", domain.AttachmentPaymentOrder, 5)

		res := reconcile.MatchAttachments(stays, []domain.ConfirmationAttachment{second, first, order}, nil, true)
		assert.Equal(t, "1_tbilisi-inn", res.Map["early"])
		assert.Equal(t, "3_tbilisi-inn", res.Map["late"])
		assert.Equal(t, "1_tbilisi-inn", res.Map["po"], "counts are tracked per kind")
	})

	t.Run("longest hotel name wins", func(t *testing.T) {
		nested := reconcile.ExtractStays(itinerary("Inn", "Tbilisi Inn"))
		res := reconcile.MatchAttachments(nested, []domain.ConfirmationAttachment{att("a1", "tbilisi inn.pdf", domain.AttachmentInvoice, 0)}, nil, true)
		assert.Equal(t, "2_tbilisi-inn", res.Map["a1"])
	})

	t.Run("legacy matching disabled", func(t *testing.T) {
		res := reconcile.MatchAttachments(stays, []domain.ConfirmationAttachment{att("a1", "Tbilisi Inn.pdf", domain.AttachmentInvoice, 0)}, nil, false)
		assert.Empty(t, res.Map)
		assert.Equal(t, []string{"a1"}, res.Unmatched)
		assert.False(t, res.Changed)
	})

	t.Run("coverage reports missing documents", func(t *testing.T) {
		inv := att("a1", "x.pdf", domain.AttachmentInvoice, 0)
		cov := reconcile.Coverage(stays, []domain.ConfirmationAttachment{inv}, map[string]string{"a1": "1_tbilisi-inn"})
		require.Len(t, cov, 3)
		assert.False(t, cov[0].MissingInvoice)
		assert.True(t, cov[0].MissingPaymentOrder)
		assert.True(t, cov[1].MissingInvoice)
	})
}
