package dto

import (
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
)

// CreateUserRequest is the body accepted by the provisioning function.
type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	FullName    string   `json:"fullName" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	CompanyID   *string  `json:"companyId,omitempty"`
	JobTitle    *string  `json:"jobTitle,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// ToDomain converts the request into the domain input.
func (r CreateUserRequest) ToDomain() domain.NewUserRequest {
	req := domain.NewUserRequest{
		Email:       r.Email,
		Password:    r.Password,
		FullName:    r.FullName,
		Role:        domain.Role(r.Role),
		CompanyID:   r.CompanyID,
		JobTitle:    r.JobTitle,
		Permissions: r.Permissions,
	}
	if r.Status != nil {
		status := domain.UserStatus(*r.Status)
		req.Status = &status
	}
	return req
}

// CreateUserResponse is returned with 201 by the provisioning function.
type CreateUserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	CompanyID *string `json:"companyId,omitempty"`
}

// ToCreateUserResponse converts a provisioned member.
func ToCreateUserResponse(u *domain.User) CreateUserResponse {
	return CreateUserResponse{ID: u.ID, Email: u.Email, CompanyID: u.CompanyID}
}

// LoginRequest holds the password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public profile of a member.
type UserResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	CompanyID   *string  `json:"companyId,omitempty"`
	Status      string   `json:"status"`
	JobTitle    *string  `json:"jobTitle,omitempty"`
	AvatarURL   *string  `json:"avatarUrl,omitempty"`
	Permissions []string `json:"permissions"`
}

// ToUserResponse converts a domain user.
func ToUserResponse(u *domain.User) UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		CompanyID:   u.CompanyID,
		Status:      string(u.Status),
		JobTitle:    u.JobTitle,
		AvatarURL:   u.AvatarURL,
		Permissions: perms,
	}
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
