package mapping

import (
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

// ToModelProject converts a domain Project to a projects row
func ToModelProject(d domain.Project) models.Project {
	var desc *string
	if d.Description != "" {
		v := d.Description
		desc = &v
	}
	return models.Project{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Description: desc,
		LeaderID:    d.LeaderID,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
		StartDate:   d.StartDate,
		DueDate:     d.DueDate,
		Members:     nonNilStrings(d.Members),
	}
}

// ToDomainProject converts a projects row to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	p := domain.Project{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		LeaderID:  m.LeaderID,
		Status:    domain.ProjectStatus(m.Status),
		Priority:  domain.Priority(m.Priority),
		StartDate: m.StartDate,
		DueDate:   m.DueDate,
		Members:   nonNilStrings(m.Members),
	}
	if m.Description != nil {
		p.Description = *m.Description
	}
	if !p.Status.IsValid() {
		p.Status = domain.ProjectActive
	}
	if !p.Priority.IsValid() {
		p.Priority = domain.PriorityMedium
	}
	return p
}

// ToDomainProjectSlice converts a slice of projects rows to domain Projects
func ToDomainProjectSlice(ms []models.Project) []domain.Project {
	ds := make([]domain.Project, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProject(m)
	}
	return ds
}
