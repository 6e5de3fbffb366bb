package routes

import (
	"meetwise/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	r.POST("/api/bookings", bh.CreateBookingHandler)

	// Owner action links, sent in the approval mail. Token possession is
	// the authorization.
	r.GET("/approve-booking/:token", bh.ApproveBookingHandler)
	r.GET("/decline-booking/:token", bh.DeclineBookingHandler)

	// Requester-side status polling.
	r.GET("/booking-status/:token", bh.BookingStatusHandler)
}
