package mapping

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:       d.ID,
		TxnDate:             domain.DateOnly(d.Date),
		Kind:                string(d.Kind),
		TxnType:             string(d.Type),
		Category:            string(d.Category),
		Description:         d.Description,
		Amount:              d.Amount,
		Currency:            string(d.Currency),
		Status:              string(d.Status),
		ConfirmationID:      d.ConfirmationID,
		HolderID:            d.HolderID,
		FromHolderID:        d.FromHolderID,
		ToHolderID:          d.ToHolderID,
		ResponsibleHolderID: d.ResponsibleHolderID,
		IsAutoGenerated:     d.IsAutoGenerated,
		PaymentMethod:       d.PaymentMethod,
		Notes:               d.Notes,
		ConfirmedAt:         d.ConfirmedAt,
		ConfirmedBy:         d.ConfirmedBy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	if d.ToAmount != nil {
		m.ToAmount = decimal.NewNullDecimal(*d.ToAmount)
	}
	if d.ToCurrency != nil {
		c := string(*d.ToCurrency)
		m.ToCurrency = &c
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		ID:                  m.TransactionID,
		Date:                m.TxnDate,
		Kind:                domain.TransactionKind(m.Kind),
		Type:                domain.TransactionType(m.TxnType),
		Category:            domain.Category(m.Category),
		Description:         m.Description,
		Amount:              m.Amount,
		Currency:            domain.Currency(m.Currency),
		Status:              domain.TransactionStatus(m.Status),
		ConfirmationID:      m.ConfirmationID,
		HolderID:            m.HolderID,
		FromHolderID:        m.FromHolderID,
		ToHolderID:          m.ToHolderID,
		ResponsibleHolderID: m.ResponsibleHolderID,
		IsAutoGenerated:     m.IsAutoGenerated,
		PaymentMethod:       m.PaymentMethod,
		Notes:               m.Notes,
		ConfirmedAt:         m.ConfirmedAt,
		ConfirmedBy:         m.ConfirmedBy,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if m.ToAmount.Valid {
		amount := m.ToAmount.Decimal
		d.ToAmount = &amount
	}
	if m.ToCurrency != nil {
		c := domain.Currency(*m.ToCurrency)
		d.ToCurrency = &c
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:      d.ID,
		ExpenseType:    d.Type,
		Description:    d.Description,
		Amount:         d.Amount,
		Currency:       string(d.Currency),
		ExpenseDate:    domain.DateOnly(d.Date),
		ConfirmationID: d.ConfirmationID,
		AttachmentID:   d.AttachmentID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ID:             m.ExpenseID,
		Type:           m.ExpenseType,
		Description:    m.Description,
		Amount:         m.Amount,
		Currency:       domain.Currency(m.Currency),
		Date:           m.ExpenseDate,
		ConfirmationID: m.ConfirmationID,
		AttachmentID:   m.AttachmentID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to a slice of domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
