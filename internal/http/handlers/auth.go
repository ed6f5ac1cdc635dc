package handlers

import (
	"net/http"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Register creates a user, runs the registration bonus check and issues a
// session token. Upstream identity verification happens before this
// endpoint is reached.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Handle    string `json:"handle"`
		FirstName string `json:"first_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name required"})
		return
	}

	u := &domain.User{
		Handle:    req.Handle,
		FirstName: req.FirstName,
	}
	if err := h.Users.Register(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}
