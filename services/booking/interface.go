package booking

import (
	"context"

	"salonbook/models"
)

// BookingService is the lifecycle surface for commit-time operations.
// All four calls translate directly into one backend call; the backend
// owns the truth and every conflict decision.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, req models.RescheduleBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, req models.CancelBookingRequest) error
	FindBookingsByPhone(ctx context.Context, req models.FindBookingsRequest) ([]models.Booking, error)
}
