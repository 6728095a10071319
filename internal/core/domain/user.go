package domain

import "slices"

// Role is the tenant-wide role of a user.
type Role string

const (
	RoleMaster Role = "MASTER" // Platform operator, not bound to a company
	RoleAdmin  Role = "ADMIN"  // Manages a single company
	RoleUser   Role = "USER"   // Regular company member
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleMaster, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// UserStatus defines whether a user may authenticate and be assigned work.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// IsValid reports whether s is one of the known statuses.
func (s UserStatus) IsValid() bool {
	return s == UserActive || s == UserSuspended
}

// User represents a member of the platform.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	CompanyID   *string     `json:"companyId,omitempty"` // nil for MASTER users
	Status      UserStatus  `json:"status"`
	JobTitle    *string     `json:"jobTitle,omitempty"`
	AvatarURL   *string     `json:"avatarUrl,omitempty"`
	Permissions []string    `json:"permissions"` // Capability strings, never nil
	Preferences Preferences `json:"preferences"`
}

// NewUser returns a user with every optional collection and preference defaulted.
func NewUser(id, name, email string, role Role) User {
	return User{
		ID:          id,
		Name:        name,
		Email:       email,
		Role:        role,
		Status:      UserActive,
		Permissions: []string{},
		Preferences: DefaultPreferences(),
	}
}

// InCompany reports whether the user belongs to companyID.
func (u User) InCompany(companyID string) bool {
	return u.CompanyID != nil && companyID != "" && *u.CompanyID == companyID
}

// SameCompany reports whether both users belong to the same company.
func (u User) SameCompany(other User) bool {
	return other.CompanyID != nil && u.InCompany(*other.CompanyID)
}

// IsSuspended reports whether the user has been suspended.
func (u User) IsSuspended() bool {
	return u.Status == UserSuspended
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	c.CompanyID = clonePtr(u.CompanyID)
	c.JobTitle = clonePtr(u.JobTitle)
	c.AvatarURL = clonePtr(u.AvatarURL)
	c.Permissions = slices.Clone(u.Permissions)
	return c
}

// HasPermission reports whether the capability string was granted to the user.
func (u User) HasPermission(capability string) bool {
	return slices.Contains(u.Permissions, capability)
}

// UserPatch lists the profile fields an update may touch. Nil means unchanged.
type UserPatch struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Role        *Role       `json:"role,omitempty" validate:"omitempty,oneof=MASTER ADMIN USER"`
	CompanyID   *string     `json:"companyId,omitempty"`
	Status      *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=active suspended"`
	JobTitle    *string     `json:"jobTitle,omitempty" validate:"omitempty,max=200"`
	Permissions *[]string   `json:"permissions,omitempty"`
}

// TouchesPrivilegedFields reports whether the patch changes role, company, status or permissions.
func (p UserPatch) TouchesPrivilegedFields() bool {
	return p.Role != nil || p.CompanyID != nil || p.Status != nil || p.Permissions != nil
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.JobTitle == nil && !p.TouchesPrivilegedFields()
}

// Apply returns a copy of u with the patch applied.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.CompanyID != nil {
		if *p.CompanyID == "" {
			u.CompanyID = nil
		} else {
			id := *p.CompanyID
			u.CompanyID = &id
		}
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.JobTitle != nil {
		title := *p.JobTitle
		u.JobTitle = &title
	}
	if p.Permissions != nil {
		u.Permissions = append([]string{}, (*p.Permissions)...)
	}
	return u
}

// NewUserRequest is the input for provisioning a new authenticated identity.
type NewUserRequest struct {
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required"`
	FullName    string      `json:"fullName" validate:"required,min=1,max=200"`
	Role        Role        `json:"role" validate:"required,oneof=MASTER ADMIN USER"`
	CompanyID   *string     `json:"companyId,omitempty"`
	JobTitle    *string     `json:"jobTitle,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
	Status      *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=active suspended"`
}
