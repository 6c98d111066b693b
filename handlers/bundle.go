package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handler funcs the route tables wire up.
type HandlerBundle struct {
	// Catalog endpoints
	ListServicesHandler gin.HandlerFunc
	GetServiceHandler   gin.HandlerFunc
	ListStaffHandler    gin.HandlerFunc
	GetStaffDayHandler  gin.HandlerFunc
	GetStaffWeekHandler gin.HandlerFunc
	GetStoreInfoHandler gin.HandlerFunc

	// Availability endpoints
	SuggestSlotsHandler gin.HandlerFunc

	// Booking endpoints
	StartSession      gin.HandlerFunc
	UpdateSession     gin.HandlerFunc
	CancelSession     gin.HandlerFunc
	ConfirmBooking    gin.HandlerFunc
	CreateBooking     gin.HandlerFunc
	RescheduleBooking gin.HandlerFunc
	CancelBooking     gin.HandlerFunc
	FindBookings      gin.HandlerFunc
}
