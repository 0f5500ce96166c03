package dto

import (
	"time"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the admin patch payload for an account.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	IsBanned *bool   `json:"isBanned"`
}

// PageQuery carries page/limit query parameters.
type PageQuery struct {
	Page  *int `query:"page" validate:"omitempty,min=1"`
	Limit *int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Values returns page and limit, zero when absent.
func (q PageQuery) Values() (int, int) {
	var page, limit int
	if q.Page != nil {
		page = *q.Page
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return page, limit
}

// UserResponse is the public view of an account. The password digest is never
// part of it.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsBanned  bool        `json:"isBanned"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsBanned:  u.IsBanned,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse standard response for register and login.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserListResponse is one page of accounts.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// NewUserListResponse maps a page of users.
func NewUserListResponse(users []domain.User, total, page, limit int) UserListResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return UserListResponse{Users: out, Total: total, Page: page, Limit: limit}
}
