package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetwise/config"
	"meetwise/cron"
	"meetwise/database"
	bookingRepo "meetwise/database/repository/booking"
	"meetwise/handlers"
	"meetwise/middleware"
	"meetwise/routes"
	"meetwise/services/booking"
	"meetwise/services/calendar"
	"meetwise/services/notification"
	"meetwise/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitStatusCache()

	businessLoc, err := time.LoadLocation(config.AppConfig.BusinessTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid business timezone %q: %v", config.AppConfig.BusinessTimezone, err)
	}

	ctx := context.Background()
	calendarService, err := calendar.NewGoogleCalendarService(ctx, config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	bookingsRepo := bookingRepo.NewMongoBookingRepo()

	// services.
	notificationService := notification.NewSMTPMailer(config.AppConfig, logger)

	availabilityChecker := &booking.AvailabilityChecker{
		Calendar:  calendarService,
		Location:  businessLoc,
		OwnerName: config.AppConfig.OwnerName,
		Logger:    logger,
	}

	reminderScheduler := cron.NewReminderScheduler(config.AppConfig, businessLoc, logger)
	defer reminderScheduler.Close()
	cron.InitReminderWorker(bookingsRepo, notificationService)

	bookingEngine := &booking.DefaultBookingEngine{
		Repo:         bookingsRepo,
		Availability: availabilityChecker,
		Calendar:     calendarService,
		Notifier:     notificationService,
		StatusCache:  utils.GetStatusCacheClient(),
		Reminders:    reminderScheduler,
		Location:     businessLoc,
		Logger:       logger,
	}

	bookingHandler := handlers.NewBookingHandler(bookingEngine, logger)
	consoleHandler := handlers.NewConsoleHandler(bookingsRepo, logger)

	routes.SetupRoutes(router, bookingHandler, consoleHandler)

	utils.StartHealthMonitor(utils.GetStatusCacheClient(), database.MongoClient)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	if err := database.MongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}
}
