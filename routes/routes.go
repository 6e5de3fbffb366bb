package routes

import (
	"time"

	"meetwise/handlers"
	"meetwise/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterConsoleRoutes registers the owner console endpoints.
func RegisterConsoleRoutes(r *gin.Engine, ch *handlers.ConsoleHandler) {
	api := r.Group("/api/console")
	{
		api.POST("/session", ch.CreateSessionHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.ConsoleAuthMiddleware())
		api.GET("/bookings", ch.ListBookingsHandler)
	}
}

// RegisterHealthRoute registers the health endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// SetupRoutes attaches shared middleware and all route groups.
func SetupRoutes(r *gin.Engine, bh *handlers.BookingHandler, ch *handlers.ConsoleHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, bh)
	RegisterConsoleRoutes(r, ch)
	RegisterHealthRoute(r)
}
