package models

// Row is implemented by every remote record type. Columns and Values are
// parallel slices; the first column is always the primary key "id".
type Row interface {
	RowID() string
	Columns() []string
	Values() []any
}

// Table names as they exist in remote storage.
const (
	TableMembers       = "members"
	TableCompanies     = "companies"
	TableProjects      = "projects"
	TableTasks         = "tasks"
	TableComments      = "comments"
	TableAttachments   = "attachments"
	TableNotifications = "notifications"
)
