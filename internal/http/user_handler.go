package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/service"
)

// UserHandler expone la administracion de usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserAdminService
}

func NewUserHandler(logger *zap.Logger, users *service.UserAdminService) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// List maneja GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Update maneja PUT /api/users/:email.
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid update user request", err)
		return
	}
	if err := h.users.Update(c.Request.Context(), c.Param("email"), req); err != nil {
		writeServiceError(c, h.logger, err, "could not update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// Delete maneja DELETE /api/users/:email.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		writeServiceError(c, h.logger, err, "could not delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
