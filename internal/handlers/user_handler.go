package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/service"
)

// UserHandler is the admin console's user management surface.
type UserHandler struct {
	authService   *service.AuthService
	accessService *service.AccessService
}

func NewUserHandler(authService *service.AuthService, accessService *service.AccessService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		accessService: accessService,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.GetAllUsers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if id == c.GetUint("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if err := h.authService.DeleteUser(id); err != nil {
		writeError(c, err)
		return
	}
	h.accessService.ForgetUser(id)
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.UpdateUserRole(id, req.Role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}
