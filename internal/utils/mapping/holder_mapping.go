package mapping

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/models"
)

// ToModelHolder converts a domain Holder to a model Holder
func ToModelHolder(d domain.Holder) models.Holder {
	return models.Holder{
		HolderID:    d.ID,
		Name:        d.Name,
		HolderType:  string(d.Type),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHolder converts a model Holder to a domain Holder
func ToDomainHolder(m models.Holder) domain.Holder {
	return domain.Holder{
		ID:          m.HolderID,
		Name:        m.Name,
		Type:        domain.HolderType(m.HolderType),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ID,
		GelToUSD:       d.GelToUSD,
		UsdToGEL:       d.UsdToGEL,
		EffectiveAt:    d.EffectiveAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ID:          m.ExchangeRateID,
		GelToUSD:    m.GelToUSD,
		UsdToGEL:    m.UsdToGEL,
		EffectiveAt: m.EffectiveAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
