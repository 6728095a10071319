package models

import "time"

// Project is a row of the projects table.
type Project struct {
	ID          string    `db:"id" json:"id"`
	CompanyID   string    `db:"company_id" json:"company_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	LeaderID    string    `db:"leader_id" json:"leader_id"`
	Status      string    `db:"status" json:"status"`
	Priority    string    `db:"priority" json:"priority"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	Members     []string  `db:"members" json:"members"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (p Project) RowID() string { return p.ID }

func (Project) Columns() []string {
	return []string{"id", "company_id", "name", "description", "leader_id", "status",
		"priority", "start_date", "due_date", "members", "created_at"}
}

func (p Project) Values() []any {
	return []any{p.ID, p.CompanyID, p.Name, p.Description, p.LeaderID, p.Status,
		p.Priority, p.StartDate, p.DueDate, p.Members, p.CreatedAt}
}
