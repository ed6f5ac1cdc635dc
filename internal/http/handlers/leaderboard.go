package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"prediction_webapp/internal/http/middleware"
	"prediction_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Leaderboard returns the top of the current ranking.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	entries, err := h.Ranks.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// MyRank returns the caller's rank entry.
func (h *Handler) MyRank(c *gin.Context) {
	userID := middleware.UserID(c)

	entry, err := h.Ranks.GetRank(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotRanked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not ranked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
