package handlers

import (
	"errors"
	"net/http"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/http/middleware"
	"prediction_webapp/internal/logger"
	"prediction_webapp/internal/repository"
	"prediction_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's profile plus an eventually-consistent wallet
// balance snapshot.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	balance, err := h.Wallet.GetBalance(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("wallet balance read failed", "user_id", userID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"balance": balance,
	})
}

// SetCurrency updates the preferred display currency.
func (h *Handler) SetCurrency(c *gin.Context) {
	userID := middleware.UserID(c)

	var req struct {
		Currency string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency required"})
		return
	}

	err := h.Users.SetCurrency(c.Request.Context(), userID, domain.Currency(req.Currency))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currency"})
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": req.Currency})
}

// SetHandle updates the public handle; the first set fires a one-shot
// award.
func (h *Handler) SetHandle(c *gin.Context) {
	userID := middleware.UserID(c)

	var req struct {
		Handle string `json:"handle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle required"})
		return
	}

	if err := h.Users.SetHandle(c.Request.Context(), userID, req.Handle); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"handle": req.Handle})
}

// SetNotifications replaces the caller's notification settings.
func (h *Handler) SetNotifications(c *gin.Context) {
	userID := middleware.UserID(c)

	var req struct {
		Notifications []string `json:"notifications"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notifications required"})
		return
	}

	if err := h.Users.SetNotifications(c.Request.Context(), userID, req.Notifications); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": req.Notifications})
}

// AvatarUploaded records that the avatar storage collaborator accepted an
// upload and fires the one-shot award.
func (h *Handler) AvatarUploaded(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.Users.MarkAvatarUploaded(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MyAwards returns the caller's award ledger history.
func (h *Handler) MyAwards(c *gin.Context) {
	userID := middleware.UserID(c)

	awards, err := h.Awards.ListByUser(c.Request.Context(), userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"awards": awards})
}

// RecordAction registers one qualifying action for the caller and reports
// the milestone award if one fired.
func (h *Handler) RecordAction(c *gin.Context) {
	userID := middleware.UserID(c)

	award, err := h.Rewards.RecordQualifyingAction(c.Request.Context(), userID, false)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{"status": "ok"}
	if award != nil {
		resp["award"] = award
	}
	c.JSON(http.StatusOK, resp)
}
