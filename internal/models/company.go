package models

import "time"

// Company is a row of the companies table.
type Company struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	LogoURL     *string   `db:"logo_url" json:"logo_url"`
	AdminID     *string   `db:"admin_id" json:"admin_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (c Company) RowID() string { return c.ID }

func (Company) Columns() []string {
	return []string{"id", "name", "description", "logo_url", "admin_id", "created_at"}
}

func (c Company) Values() []any {
	return []any{c.ID, c.Name, c.Description, c.LogoURL, c.AdminID, c.CreatedAt}
}
