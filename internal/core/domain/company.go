package domain

// Company is a tenant. Projects and users hang off it.
type Company struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
	AdminID     *string `json:"adminId,omitempty"` // FK -> members.id (ADMIN or MASTER)
}

// Clone returns a copy of c that shares no pointers with it.
func (c Company) Clone() Company {
	out := c
	out.Description = clonePtr(c.Description)
	out.LogoURL = clonePtr(c.LogoURL)
	out.AdminID = clonePtr(c.AdminID)
	return out
}

// NewCompanyRequest is the input for creating a company.
type NewCompanyRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	LogoURL     *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	AdminID     *string `json:"adminId,omitempty"`
}

// CompanyPatch lists the company fields an update may touch.
type CompanyPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	LogoURL     *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	AdminID     *string `json:"adminId,omitempty"` // "" clears the admin
}

// Apply returns a copy of c with the patch applied.
func (p CompanyPatch) Apply(c Company) Company {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	if p.LogoURL != nil {
		l := *p.LogoURL
		c.LogoURL = &l
	}
	if p.AdminID != nil {
		if *p.AdminID == "" {
			c.AdminID = nil
		} else {
			a := *p.AdminID
			c.AdminID = &a
		}
	}
	return c
}
