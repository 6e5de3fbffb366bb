package handlers

import (
	"errors"
	"net/http"

	"meetwise/models"
	"meetwise/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP: structured draft
// intake, the owner's approve/decline links, and status polling.
type BookingHandler struct {
	Engine booking.BookingEngine
	Logger *zap.Logger
}

func NewBookingHandler(engine booking.BookingEngine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// CreateBookingHandler accepts a structured BookingDraft. Free-text parsing
// happens upstream; this endpoint only ever sees typed fields.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var draft models.BookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Engine.Create(c.Request.Context(), draft)
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	resp := gin.H{
		"booking_token":  result.Token,
		"booking_status": models.StatusPending,
	}
	if result.NotificationWarning != "" {
		resp["notification_warning"] = result.NotificationWarning
	}
	c.JSON(http.StatusCreated, resp)
}

// ApproveBookingHandler is the link the owner clicks from the approval mail.
func (h *BookingHandler) ApproveBookingHandler(c *gin.Context) {
	token := c.Param("token")

	rec, err := h.Engine.Approve(c.Request.Context(), token)
	if err != nil {
		var be *booking.Error
		if errors.As(err, &be) {
			status := http.StatusOK
			if be.Code == booking.CodeServiceUnavailable {
				status = http.StatusServiceUnavailable
			}
			renderResultPage(c, status, resultPage{
				Title:   "Could Not Approve",
				Color:   "#e53e3e",
				Message: be.Message,
			})
			return
		}
		renderResultPage(c, http.StatusInternalServerError, resultPage{
			Title:   "Could Not Approve",
			Color:   "#e53e3e",
			Message: "An unexpected error occurred.",
		})
		return
	}

	h.Logger.Info("approval link used", zap.String("bookingID", rec.ID))
	renderResultPage(c, http.StatusOK, resultPage{
		Title:   "Meeting Approved",
		Color:   "#667eea",
		Message: "Booking approved and calendar event created.",
		Detail:  "A calendar event has been created and the requester has been notified.",
	})
}

// DeclineBookingHandler is the decline link. Re-clicks and unknown tokens
// render the same page; the decline operation is a silent no-op for those.
func (h *BookingHandler) DeclineBookingHandler(c *gin.Context) {
	token := c.Param("token")

	if err := h.Engine.Decline(c.Request.Context(), token); err != nil {
		renderResultPage(c, http.StatusServiceUnavailable, resultPage{
			Title:   "Something Went Wrong",
			Color:   "#e53e3e",
			Message: "The decline could not be recorded. Please try the link again.",
		})
		return
	}

	renderResultPage(c, http.StatusOK, resultPage{
		Title:   "Meeting Declined",
		Color:   "#888",
		Message: "The meeting request has been declined.",
	})
}

// BookingStatusHandler lets the requester poll a booking by its token.
func (h *BookingHandler) BookingStatusHandler(c *gin.Context) {
	token := c.Param("token")

	status, err := h.Engine.GetStatus(c.Request.Context(), token)
	if err != nil {
		if booking.IsCode(err, booking.CodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *BookingHandler) renderEngineError(c *gin.Context, err error) {
	var be *booking.Error
	if !errors.As(err, &be) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch be.Code {
	case booking.CodeValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": be.Message})
	case booking.CodeAvailabilityConflict:
		c.JSON(http.StatusConflict, gin.H{
			"error":          be.Message,
			"booking_status": "unavailable",
		})
	case booking.CodeServiceUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": be.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": be.Message})
	}
}
