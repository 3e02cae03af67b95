package dtos

import "time"

// Operator roles. Admin manages users; Admin and Manager manage jobs and
// may delete endorsed candidates.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleUser    = "User"
)

const (
	UserOnline  = "Online"
	UserOffline = "Offline"
)

type User struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	FullName string   `json:"fullName" binding:"required,min=2"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles" binding:"omitempty,dive,oneof=Admin Manager User"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type ProfileResponse struct {
	User User `json:"user"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"omitempty,min=2"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// SetPrivilegeRequest replaces a user's roles with exactly one role.
type SetPrivilegeRequest struct {
	Roles []string `json:"roles" binding:"required,len=1,dive,oneof=Admin Manager User"`
}

type UserListResponse struct {
	Data []User `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
