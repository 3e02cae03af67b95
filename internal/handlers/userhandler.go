package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grrt-recruitment/pipeline/internal/auth"
	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

type UserHandler struct {
	Users  *services.UserService
	Issuer *auth.Issuer
}

func NewUserHandler(users *services.UserService, iss *auth.Issuer) *UserHandler {
	return &UserHandler{Users: users, Issuer: iss}
}

// Register is the POST /users/register endpoint. Only an authenticated
// Admin may choose roles; everyone else gets the User role.
func (h *UserHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !auth.HasRole(c, dtos.RoleAdmin) {
		req.Roles = nil
	}
	u, err := h.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, dtos.ProfileResponse{User: *u})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}
	token, err := h.Issuer.Sign(u.ID, u.Roles)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, dtos.LoginResponse{AccessToken: token})
}

func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Users.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, "Failed to load profile", err)
		return
	}
	c.JSON(http.StatusOK, dtos.ProfileResponse{User: *u})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.Users.UpdateProfile(c.Request.Context(), auth.UserID(c), &req); err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Success"})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req dtos.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Users.UpdatePassword(c.Request.Context(), auth.UserID(c), &req); err != nil {
		respondError(c, "Failed to update password", err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Success"})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load users", err)
		return
	}
	c.JSON(http.StatusOK, dtos.UserListResponse{Data: users})
}

func (h *UserHandler) SetPrivilege(c *gin.Context) {
	var req dtos.SetPrivilegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.SetPrivilege(c.Request.Context(), c.Param("id"), req.Roles)
	if err != nil {
		respondError(c, "Failed to set privilege", err)
		return
	}
	c.JSON(http.StatusOK, dtos.ProfileResponse{User: *u})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == auth.UserID(c) {
		respondError(c, "Failed to delete user", fmt.Errorf("%w: cannot delete your own account", services.ErrInvalidInput))
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "User deleted successfully"})
}
