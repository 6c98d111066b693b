package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"salonbook/handlers"
	"salonbook/utils"
)

// RegisterCatalogRoutes registers service catalog and staff directory endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/services/:serviceID", hb.GetServiceHandler)
		api.GET("/staff", hb.ListStaffHandler)
		api.GET("/staff/:staffID/day", hb.GetStaffDayHandler)
		api.GET("/staff/:staffID/week", hb.GetStaffWeekHandler)
		api.GET("/store", hb.GetStoreInfoHandler)
	}
}

// RegisterAvailabilityRoutes registers slot suggestion endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.POST("/suggest", hb.SuggestSlotsHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.POST("/session", hb.StartSession)
		bookingGroup.PUT("/session/:sessionID", hb.UpdateSession)
		bookingGroup.DELETE("/session/:sessionID", hb.CancelSession)
		bookingGroup.POST("/session/:sessionID/confirm", hb.ConfirmBooking)
		bookingGroup.POST("/book", hb.CreateBooking)
		bookingGroup.POST("/reschedule", hb.RescheduleBooking)
		bookingGroup.POST("/cancel", hb.CancelBooking)
		bookingGroup.POST("/find-by-phone", hb.FindBookings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Reverify-Advised"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCatalogRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
