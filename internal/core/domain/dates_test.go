package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	may10 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"day first", "10/05/2024", may10, true},
		{"iso", "2024-05-10", may10, true},
		{"rfc3339", "2024-05-10T18:30:00+04:00", may10, true},
		{"padded", "  10/05/2024 ", may10, true},
		{"empty", "", time.Time{}, false},
		{"two segments", "10/05", time.Time{}, false},
		{"four segments", "10/05/20/24", time.Time{}, false},
		{"impossible day", "31/02/2024", time.Time{}, false},
		{"month out of range", "10/13/2024", time.Time{}, false},
		{"non numeric", "aa/05/2024", time.Time{}, false},
		{"two digit year", "10/05/24", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestDateRange_ContainsRaw(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	active := domain.DateRange{From: &from, To: &to}
	open := domain.DateRange{}

	assert.True(t, active.ContainsRaw("01/05/2024"), "lower bound is inclusive")
	assert.True(t, active.ContainsRaw("31/05/2024"), "upper bound is inclusive")
	assert.False(t, active.ContainsRaw("01/06/2024"))
	assert.False(t, active.ContainsRaw("bad/date"), "unparseable dates are excluded by an active filter")

	assert.True(t, open.ContainsRaw("bad/date"), "an open range keeps everything")
	assert.True(t, open.ContainsRaw("01/06/2024"))
}
