package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"salonbook/config"
	"salonbook/database"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/availability"
	"salonbook/services/booking"
	"salonbook/services/catalog"
	"salonbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitQueryCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// catalog layer.
	serviceCatalog := catalog.NewServiceCatalog(database.DB)
	staffDirectory := catalog.NewStaffDirectory(database.DB)

	// workflow backend client. Also serves busy intervals for availability.
	workflowClient := &booking.WorkflowClient{
		BaseURL:  config.AppConfig.WorkflowBaseURL,
		Username: config.AppConfig.WorkflowUser,
		Password: config.AppConfig.WorkflowPass,
		Timeout:  time.Duration(config.AppConfig.WorkflowTimeoutSec) * time.Second,
		Paths: booking.WorkflowPaths{
			Book:       config.AppConfig.WorkflowPathBook,
			Reschedule: config.AppConfig.WorkflowPathReschedule,
			Cancel:     config.AppConfig.WorkflowPathCancel,
			Find:       config.AppConfig.WorkflowPathFind,
			Busy:       config.AppConfig.WorkflowPathBusy,
		},
		CalendarMap: config.CalendarMap(),
		HTTPClient:  &http.Client{},
		Logger:      logger,
	}

	// availability engine.
	queryCache := availability.NewQueryCache(utils.GetQueryCacheClient(), logger)
	engine := &availability.DefaultEngine{
		Catalog:   serviceCatalog,
		Directory: staffDirectory,
		Busy:      workflowClient,
		Cache:     queryCache,
		Cfg: availability.Config{
			GranularityMin: config.AppConfig.SlotGranularityMin,
			DefaultDays:    config.AppConfig.SearchWindowDays,
			PartyStrategy:  config.AppConfig.PartyStrategy,
			BusyTimeout:    time.Duration(config.AppConfig.WorkflowTimeoutSec) * time.Second,
		},
		Logger: logger,
	}

	// booking lifecycle.
	bookingService := booking.NewBookingService(workflowClient, serviceCatalog, staffDirectory.Location(), logger)
	sessionStore := booking.NewSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMin)*time.Minute,
	)

	// handlers.
	catalogHandler := handlers.NewCatalogHandler(serviceCatalog, staffDirectory, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(engine, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, sessionStore, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Catalog endpoints.
		ListServicesHandler: catalogHandler.ListServices,
		GetServiceHandler:   catalogHandler.GetService,
		ListStaffHandler:    catalogHandler.ListStaff,
		GetStaffDayHandler:  catalogHandler.GetStaffDay,
		GetStaffWeekHandler: catalogHandler.GetStaffWeek,
		GetStoreInfoHandler: catalogHandler.GetStoreInfo,

		// Availability endpoints.
		SuggestSlotsHandler: availabilityHandler.Suggest,

		// Booking endpoints.
		StartSession:      bookingHandler.StartSession,
		UpdateSession:     bookingHandler.UpdateSession,
		CancelSession:     bookingHandler.CancelSession,
		ConfirmBooking:    bookingHandler.ConfirmBooking,
		CreateBooking:     bookingHandler.CreateBooking,
		RescheduleBooking: bookingHandler.RescheduleBooking,
		CancelBooking:     bookingHandler.CancelBooking,
		FindBookings:      bookingHandler.FindBookings,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetQueryCacheClient()},
		config.AppConfig.WorkflowBaseURL,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
