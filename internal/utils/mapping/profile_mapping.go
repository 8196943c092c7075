package mapping

import (
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/models"
)

// ToDomainProfile converts a model Profile to a domain Profile
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		UserID:      m.UserID,
		FullName:    m.FullName,
		Email:       m.Email,
		Role:        domain.Role(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSavedHotel converts a model SavedHotel to a domain SavedHotel
func ToDomainSavedHotel(m models.SavedHotel) domain.SavedHotel {
	return domain.SavedHotel{
		ID:          m.SavedHotelID,
		Name:        m.Name,
		Email:       m.Email,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelImportToken converts a domain ImportToken to a model ImportToken
func ToModelImportToken(d domain.ImportToken) models.ImportToken {
	return models.ImportToken{
		ImportTokenID: d.ID,
		Name:          d.Name,
		TokenHash:     d.TokenHash,
		CreatedBy:     d.CreatedBy,
		LastUsedAt:    d.LastUsedAt,
		ExpiresAt:     d.ExpiresAt,
		CreatedAt:     d.CreatedAt,
		RevokedAt:     d.RevokedAt,
	}
}

// ToDomainImportToken converts a model ImportToken to a domain ImportToken
func ToDomainImportToken(m models.ImportToken) domain.ImportToken {
	return domain.ImportToken{
		ID:         m.ImportTokenID,
		Name:       m.Name,
		TokenHash:  m.TokenHash,
		CreatedBy:  m.CreatedBy,
		LastUsedAt: m.LastUsedAt,
		ExpiresAt:  m.ExpiresAt,
		CreatedAt:  m.CreatedAt,
		RevokedAt:  m.RevokedAt,
	}
}
