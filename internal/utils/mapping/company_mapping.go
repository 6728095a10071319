package mapping

import (
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

// ToModelCompany converts a domain Company to a companies row
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		LogoURL:     d.LogoURL,
		AdminID:     emptyToNil(d.AdminID),
	}
}

// ToDomainCompany converts a companies row to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		AdminID:     emptyToNil(m.AdminID),
	}
}

// ToDomainCompanySlice converts a slice of companies rows to domain Companies
func ToDomainCompanySlice(ms []models.Company) []domain.Company {
	ds := make([]domain.Company, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCompany(m)
	}
	return ds
}
