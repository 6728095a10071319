package mapping

import (
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

// ToDomainPreferences converts stored preferences, filling every absent field with its default.
func ToDomainPreferences(m *models.Preferences) domain.Preferences {
	if m == nil {
		return domain.DefaultPreferences()
	}
	return domain.Preferences{
		Theme:         m.Theme,
		PrimaryColor:  m.PrimaryColor,
		LayoutDensity: m.LayoutDensity,
		Language:      m.Language,
	}.WithDefaults()
}

// ToModelPreferences converts domain preferences to their stored form.
func ToModelPreferences(d domain.Preferences) *models.Preferences {
	return &models.Preferences{
		Theme:         d.Theme,
		PrimaryColor:  d.PrimaryColor,
		LayoutDensity: d.LayoutDensity,
		Language:      d.Language,
	}
}

// ToModelMember converts a domain User to a members row
func ToModelMember(d domain.User) models.Member {
	status := string(d.Status)
	if status == "" {
		status = string(domain.UserActive)
	}
	return models.Member{
		ID:          d.ID,
		Name:        d.Name,
		Email:       d.Email,
		Role:        string(d.Role),
		CompanyID:   d.CompanyID,
		Status:      &status,
		JobTitle:    d.JobTitle,
		AvatarURL:   d.AvatarURL,
		Permissions: nonNilStrings(d.Permissions),
		Preferences: ToModelPreferences(d.Preferences.WithDefaults()),
	}
}

// ToDomainUser converts a members row to a domain User
func ToDomainUser(m models.Member) domain.User {
	u := domain.NewUser(m.ID, m.Name, m.Email, domain.Role(m.Role))
	if m.Status != nil && domain.UserStatus(*m.Status).IsValid() {
		u.Status = domain.UserStatus(*m.Status)
	}
	u.CompanyID = emptyToNil(m.CompanyID)
	u.JobTitle = m.JobTitle
	u.AvatarURL = m.AvatarURL
	u.Permissions = nonNilStrings(m.Permissions)
	u.Preferences = ToDomainPreferences(m.Preferences)
	return u
}

// ToDomainUserSlice converts a slice of members rows to domain Users
func ToDomainUserSlice(ms []models.Member) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
