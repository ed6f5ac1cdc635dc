package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// BonusStatus reports how many registration bonus slots are left.
func (h *Handler) BonusStatus(c *gin.Context) {
	remaining, err := h.Bonuses.Remaining(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// DeadLetters lists the most recent failed external effects (wallet
// mints, publishes) for inspection.
func (h *Handler) DeadLetters(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	letters, err := h.DeadLetterRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dead_letters": letters})
}
