package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"meetwise/config"
	bookingRepo "meetwise/database/repository/booking"
	"meetwise/models"
	"meetwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	consoleSessionTTL = 12 * time.Hour
	consoleListLimit  = 100
)

// ConsoleHandler serves the owner console: a session endpoint exchanging the
// configured secret for a JWT, and a listing of recent booking requests.
type ConsoleHandler struct {
	Repo   bookingRepo.BookingRepository
	Logger *zap.Logger
}

func NewConsoleHandler(repo bookingRepo.BookingRepository, logger *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{Repo: repo, Logger: logger}
}

// CreateSessionHandler exchanges the console secret for a short-lived token.
func (h *ConsoleHandler) CreateSessionHandler(c *gin.Context) {
	var input struct {
		Secret string `json:"secret"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	secret := config.AppConfig.ConsoleSecret
	if secret == "" || subtle.ConstantTimeCompare([]byte(input.Secret), []byte(secret)) != 1 {
		h.Logger.Warn("console session rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid console secret"})
		return
	}

	token, err := utils.GenerateConsoleToken("owner", consoleSessionTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int(consoleSessionTTL.Seconds())})
}

// ListBookingsHandler returns recent bookings, newest first, optionally
// filtered by ?status=.
func (h *ConsoleHandler) ListBookingsHandler(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusDeclined:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	recs, err := h.Repo.List(c.Request.Context(), status, consoleListLimit)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": recs, "count": len(recs)})
}
