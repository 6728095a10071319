package domain

import "slices"

// Priority is shared by projects and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Preferences holds per-user presentation settings.
type Preferences struct {
	Theme         string `json:"theme" validate:"omitempty,oneof=light dark system"`
	PrimaryColor  string `json:"primaryColor"`
	LayoutDensity string `json:"layoutDensity" validate:"omitempty,oneof=compact comfortable"`
	Language      string `json:"language"`
}

const (
	DefaultTheme         = "system"
	DefaultPrimaryColor  = "blue"
	DefaultLayoutDensity = "comfortable"
	DefaultLanguage      = "pt-BR"
)

// DefaultPreferences returns the preferences used when storage has none.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         DefaultTheme,
		PrimaryColor:  DefaultPrimaryColor,
		LayoutDensity: DefaultLayoutDensity,
		Language:      DefaultLanguage,
	}
}

// WithDefaults fills every empty field from DefaultPreferences.
func (p Preferences) WithDefaults() Preferences {
	d := DefaultPreferences()
	if p.Theme == "" {
		p.Theme = d.Theme
	}
	if p.PrimaryColor == "" {
		p.PrimaryColor = d.PrimaryColor
	}
	if p.LayoutDensity == "" {
		p.LayoutDensity = d.LayoutDensity
	}
	if p.Language == "" {
		p.Language = d.Language
	}
	return p
}

// Merge overlays the non-empty fields of patch on p.
func (p Preferences) Merge(patch Preferences) Preferences {
	if patch.Theme != "" {
		p.Theme = patch.Theme
	}
	if patch.PrimaryColor != "" {
		p.PrimaryColor = patch.PrimaryColor
	}
	if patch.LayoutDensity != "" {
		p.LayoutDensity = patch.LayoutDensity
	}
	if patch.Language != "" {
		p.Language = patch.Language
	}
	return p
}

// Target identifies the parent a comment or attachment hangs off.
// Exactly one of TaskID and ProjectID is set.
type Target struct {
	TaskID    *string `json:"taskId,omitempty"`
	ProjectID *string `json:"projectId,omitempty"`
}

// TaskTarget builds a Target pointing at a task.
func TaskTarget(taskID string) Target {
	return Target{TaskID: &taskID}
}

// ProjectTarget builds a Target pointing at a project.
func ProjectTarget(projectID string) Target {
	return Target{ProjectID: &projectID}
}

// IsValid reports whether exactly one parent is set.
func (t Target) IsValid() bool {
	hasTask := t.TaskID != nil && *t.TaskID != ""
	hasProject := t.ProjectID != nil && *t.ProjectID != ""
	return hasTask != hasProject
}

// Clone returns a copy that shares no pointers with t.
func (t Target) Clone() Target {
	return Target{TaskID: clonePtr(t.TaskID), ProjectID: clonePtr(t.ProjectID)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func containsID(ids []string, id string) bool {
	return id != "" && slices.Contains(ids, id)
}
