package models

import "time"

// Preferences is the jsonb shape stored in members.preferences. Any field may be absent.
type Preferences struct {
	Theme         string `json:"theme,omitempty"`
	PrimaryColor  string `json:"primaryColor,omitempty"`
	LayoutDensity string `json:"layoutDensity,omitempty"`
	Language      string `json:"language,omitempty"`
}

// Member is a row of the members table. password_hash is never selected through it.
type Member struct {
	ID          string       `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Email       string       `db:"email" json:"email"`
	Role        string       `db:"role" json:"role"`
	CompanyID   *string      `db:"company_id" json:"company_id"`
	Status      *string      `db:"status" json:"status"`
	JobTitle    *string      `db:"job_title" json:"job_title"`
	AvatarURL   *string      `db:"avatar_url" json:"avatar_url"`
	Permissions []string     `db:"permissions" json:"permissions"`
	Preferences *Preferences `db:"preferences" json:"preferences"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

func (m Member) RowID() string { return m.ID }

func (Member) Columns() []string {
	return []string{"id", "name", "email", "role", "company_id", "status", "job_title",
		"avatar_url", "permissions", "preferences", "created_at"}
}

func (m Member) Values() []any {
	return []any{m.ID, m.Name, m.Email, m.Role, m.CompanyID, m.Status, m.JobTitle,
		m.AvatarURL, m.Permissions, m.Preferences, m.CreatedAt}
}

// Credential is the login view of a member row.
type Credential struct {
	MemberID     string  `db:"id"`
	Email        string  `db:"email"`
	PasswordHash *string `db:"password_hash"`
}
