package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a ledger entry.
type TransactionKind string

const (
	KindIn       TransactionKind = "in"
	KindOut      TransactionKind = "out"
	KindTransfer TransactionKind = "transfer"
	KindExchange TransactionKind = "exchange"
)

// IsValid reports whether the kind is known.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindIn, KindOut, KindTransfer, KindExchange:
		return true
	}
	return false
}

// TransactionType is the legacy income/expense mirror of TransactionKind.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// LegacyTypeFor derives the legacy type. Transfers and exchanges have none.
func LegacyTypeFor(kind TransactionKind) TransactionType {
	switch kind {
	case KindIn:
		return TypeIncome
	case KindOut:
		return TypeExpense
	}
	return ""
}

// TransactionStatus tracks whether the money movement has been confirmed.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
)

// IsValid reports whether the status is known.
func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Category classifies a transaction. Values outside the predefined list are
// custom categories entered by users.
type Category string

const (
	CategoryTourPayment      Category = "tour_payment"
	CategoryHotel            Category = "hotel"
	CategoryDriver           Category = "driver"
	CategorySim              Category = "sim"
	CategoryBreakfast        Category = "breakfast"
	CategoryFuel             Category = "fuel"
	CategoryGuide            Category = "guide"
	CategorySalary           Category = "salary"
	CategoryTransferInternal Category = "transfer_internal"
	CategoryReimbursement    Category = "reimbursement"
	CategoryDeposit          Category = "deposit"
	CategoryOther            Category = "other"

	// CategoryCustom is a request-side marker meaning "use the custom name instead".
	CategoryCustom Category = "custom"
)

// PredefinedCategories lists the built-in categories in display order.
var PredefinedCategories = []Category{
	CategoryTourPayment, CategoryHotel, CategoryDriver, CategorySim, CategoryBreakfast,
	CategoryFuel, CategoryGuide, CategorySalary, CategoryTransferInternal,
	CategoryReimbursement, CategoryDeposit, CategoryOther,
}

// IsPredefined reports whether the category is one of the built-in values.
func (c Category) IsPredefined() bool {
	for _, p := range PredefinedCategories {
		if c == p {
			return true
		}
	}
	return false
}

// ResolveCategory turns a requested category plus optional custom name into the stored value.
func ResolveCategory(requested Category, customName string) (Category, error) {
	if requested == CategoryCustom {
		name := strings.TrimSpace(customName)
		if name == "" {
			return "", errors.New("custom category name is required")
		}
		return Category(name), nil
	}
	if strings.TrimSpace(string(requested)) == "" {
		return "", errors.New("category is required")
	}
	return requested, nil
}

// Transaction is a ledger entry.
type Transaction struct {
	ID                  string            `json:"id"`
	Date                time.Time         `json:"date"`
	Kind                TransactionKind   `json:"kind"`
	Type                TransactionType   `json:"type,omitempty"`
	Category            Category          `json:"category"`
	Description         string            `json:"description"`
	Amount              decimal.Decimal   `json:"amount"`
	Currency            Currency          `json:"currency"`
	ToAmount            *decimal.Decimal  `json:"toAmount,omitempty"`   // exchange only
	ToCurrency          *Currency         `json:"toCurrency,omitempty"` // exchange only
	Status              TransactionStatus `json:"status"`
	ConfirmationID      *string           `json:"confirmationId,omitempty"`
	HolderID            *string           `json:"holderId,omitempty"`
	FromHolderID        *string           `json:"fromHolderId,omitempty"`
	ToHolderID          *string           `json:"toHolderId,omitempty"`
	ResponsibleHolderID *string           `json:"responsibleHolderId,omitempty"`
	IsAutoGenerated     bool              `json:"isAutoGenerated"`
	PaymentMethod       string            `json:"paymentMethod,omitempty"`
	Notes               string            `json:"notes,omitempty"`
	ConfirmedAt         *time.Time        `json:"confirmedAt,omitempty"`
	ConfirmedBy         *string           `json:"confirmedBy,omitempty"`
	AuditFields
}

// IsConfirmed reports whether the entry counts towards balances and received totals.
func (t Transaction) IsConfirmed() bool {
	return t.Status == StatusConfirmed
}

// BelongsTo reports whether the transaction is linked to the confirmation.
func (t Transaction) BelongsTo(confirmationID string) bool {
	return t.ConfirmationID != nil && *t.ConfirmationID == confirmationID
}

// AccountableHolderID is the holder an in/out entry is booked against: the
// responsible holder when set, else the plain holder.
func (t Transaction) AccountableHolderID() string {
	if t.ResponsibleHolderID != nil && *t.ResponsibleHolderID != "" {
		return *t.ResponsibleHolderID
	}
	if t.HolderID != nil {
		return *t.HolderID
	}
	return ""
}

// Validate enforces the entry rules checked before anything reaches the store.
func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("invalid transaction kind %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if !t.Currency.IsValid() {
		return fmt.Errorf("unsupported currency %q", t.Currency)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid transaction status %q", t.Status)
	}
	if strings.TrimSpace(string(t.Category)) == "" {
		return errors.New("category is required")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}

	switch t.Kind {
	case KindTransfer:
		if isBlank(t.FromHolderID) || isBlank(t.ToHolderID) {
			return errors.New("transfers require both a source and a destination holder")
		}
		if *t.FromHolderID == *t.ToHolderID {
			return errors.New("transfer source and destination holders must differ")
		}
	case KindExchange:
		if isBlank(t.FromHolderID) || isBlank(t.ToHolderID) {
			return errors.New("exchanges require both a source and a destination holder")
		}
		if t.ToAmount == nil || !t.ToAmount.IsPositive() {
			return errors.New("exchanges require a positive converted amount")
		}
		if t.ToCurrency == nil || !t.ToCurrency.IsValid() {
			return errors.New("exchanges require a target currency")
		}
		if *t.ToCurrency == t.Currency {
			return errors.New("exchange target currency must differ from the source currency")
		}
	default:
		if !isBlank(t.FromHolderID) || !isBlank(t.ToHolderID) {
			return errors.New("only transfers and exchanges may set source or destination holders")
		}
	}
	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// TransactionFilter narrows ledger listings.
type TransactionFilter struct {
	Dates          DateRange
	ConfirmationID *string
	HolderID       *string
	Kind           *TransactionKind
	Status         *TransactionStatus
	Category       *Category
	// Keyset cursor: entries strictly older than (AfterDate, AfterCreatedAt, AfterID).
	AfterDate      *time.Time
	AfterCreatedAt *time.Time
	AfterID        *string
	Limit          int
}
