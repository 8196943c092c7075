package reconcile

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
)

// Stay is one continuous run of nights at the same hotel.
type Stay struct {
	Key       string `json:"key"`
	Index     int    `json:"index"` // 1-based position in the itinerary
	Hotel     string `json:"hotel"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Nights    int    `json:"nights"`
}

// ExtractStays groups consecutive itinerary days at the same hotel. Days without
// a hotel end the current run and never form a stay.
func ExtractStays(payload domain.Payload) []Stay {
	stays := make([]Stay, 0)
	var current *Stay
	for _, day := range payload.Itinerary {
		hotel := strings.TrimSpace(day.Hotel)
		if hotel == "" {
			current = nil
			continue
		}
		if current != nil && fold(current.Hotel) == fold(hotel) {
			current.EndDate = day.Date
			current.Nights++
			continue
		}
		idx := len(stays) + 1
		stays = append(stays, Stay{
			Key:       StayKey(idx, hotel),
			Index:     idx,
			Hotel:     hotel,
			StartDate: day.Date,
			EndDate:   day.Date,
			Nights:    1,
		})
		current = &stays[len(stays)-1]
	}
	return stays
}

// StayKey is "{index}_{hotel-slug}", stable for a given itinerary.
func StayKey(index int, hotel string) string {
	return fmt.Sprintf("%d_%s", index, strings.ReplaceAll(normalizeName(hotel), " ", "-"))
}

// normalizeName folds case and turns every run of non alphanumerics into one space.
func normalizeName(s string) string {
	return strings.Join(strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

var stayNumberPattern = regexp.MustCompile(`(?i)\(\s*stay\s*(\d+)\s*\)`)

// MatchResult is the attachment to stay assignment for one confirmation.
type MatchResult struct {
	Map       map[string]string `json:"map"` // attachment id -> stay key
	Changed   bool              `json:"changed"`
	Unmatched []string          `json:"unmatched"`
}

// MatchAttachments assigns attachments to stays. Sources are tried in order:
// the stored map, the explicit stay key (set at upload or encoded in the
// storage path), then, only when legacy is true, "(stay N)" in the file name
// together with a hotel name, and finally a bare hotel-name match where the
// longest hotel name wins and ambiguous uploads are dealt out oldest first to
// the stay holding the fewest attachments of that kind.
// Stored entries pointing at attachments or stays that no longer exist are dropped.
func MatchAttachments(stays []Stay, attachments []domain.ConfirmationAttachment, stored map[string]string, legacy bool) MatchResult {
	valid := make(map[string]bool, len(stays))
	for _, s := range stays {
		valid[s.Key] = true
	}

	result := make(map[string]string, len(attachments))
	counts := make(map[string]map[domain.AttachmentKind]int)
	assign := func(att domain.ConfirmationAttachment, key string) {
		result[att.ID] = key
		if counts[key] == nil {
			counts[key] = make(map[domain.AttachmentKind]int)
		}
		counts[key][att.Kind]++
	}

	pending := make([]domain.ConfirmationAttachment, 0)
	for _, att := range attachments {
		if key, ok := stored[att.ID]; ok && valid[key] {
			assign(att, key)
			continue
		}
		if att.StayKey != nil && valid[*att.StayKey] {
			assign(att, *att.StayKey)
			continue
		}
		if key, ok := domain.StayKeyFromPath(att.StoragePath); ok && valid[key] {
			assign(att, key)
			continue
		}
		pending = append(pending, att)
	}

	unmatched := make([]string, 0)
	if legacy {
		sort.SliceStable(pending, func(i, j int) bool {
			return pending[i].UploadedAt.Before(pending[j].UploadedAt)
		})
		for _, att := range pending {
			if key, ok := matchByStayNumber(stays, att.FileName); ok {
				assign(att, key)
				continue
			}
			candidates := hotelCandidates(stays, att.FileName)
			if len(candidates) == 0 {
				unmatched = append(unmatched, att.ID)
				continue
			}
			best := candidates[0]
			for _, c := range candidates[1:] {
				if counts[c.Key][att.Kind] < counts[best.Key][att.Kind] {
					best = c
				}
			}
			assign(att, best.Key)
		}
	} else {
		for _, att := range pending {
			unmatched = append(unmatched, att.ID)
		}
	}

	return MatchResult{Map: result, Changed: !sameMap(stored, result), Unmatched: unmatched}
}

// matchByStayNumber resolves "(stay N)" to the Nth stay at the hotel named in the file.
func matchByStayNumber(stays []Stay, fileName string) (string, bool) {
	m := stayNumberPattern.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return "", false
	}
	candidates := hotelCandidates(stays, fileName)
	if n > len(candidates) {
		return "", false
	}
	return candidates[n-1].Key, true
}

// hotelCandidates returns, in itinerary order, the stays at the longest hotel
// name contained in the file name.
func hotelCandidates(stays []Stay, fileName string) []Stay {
	name := normalizeName(stayNumberPattern.ReplaceAllString(fileName, " "))
	bestLen := 0
	var bestHotel string
	for _, s := range stays {
		h := normalizeName(s.Hotel)
		if h == "" || !strings.Contains(name, h) {
			continue
		}
		if len(h) > bestLen {
			bestLen = len(h)
			bestHotel = h
		}
	}
	if bestLen == 0 {
		return nil
	}
	out := make([]Stay, 0)
	for _, s := range stays {
		if normalizeName(s.Hotel) == bestHotel {
			out = append(out, s)
		}
	}
	return out
}

func sameMap(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// StayCoverage tells which documents a stay still lacks.
type StayCoverage struct {
	Stay                Stay `json:"stay"`
	Invoices            int  `json:"invoices"`
	PaymentOrders       int  `json:"paymentOrders"`
	MissingInvoice      bool `json:"missingInvoice"`
	MissingPaymentOrder bool `json:"missingPaymentOrder"`
}

// Coverage counts matched attachments per stay.
func Coverage(stays []Stay, attachments []domain.ConfirmationAttachment, assignment map[string]string) []StayCoverage {
	kinds := make(map[string]domain.AttachmentKind, len(attachments))
	for _, a := range attachments {
		kinds[a.ID] = a.Kind
	}
	out := make([]StayCoverage, len(stays))
	idx := make(map[string]int, len(stays))
	for i, s := range stays {
		out[i] = StayCoverage{Stay: s}
		idx[s.Key] = i
	}
	for attID, key := range assignment {
		i, ok := idx[key]
		if !ok {
			continue
		}
		switch kinds[attID] {
		case domain.AttachmentInvoice:
			out[i].Invoices++
		case domain.AttachmentPaymentOrder:
			out[i].PaymentOrders++
		}
	}
	for i := range out {
		out[i].MissingInvoice = out[i].Invoices == 0
		out[i].MissingPaymentOrder = out[i].PaymentOrders == 0
	}
	return out
}
