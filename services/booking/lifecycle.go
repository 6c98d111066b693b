package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/catalog"
)

const (
	defaultFindDays = 30
	anyStaffID      = "any"
)

// DefaultBookingService validates and enriches requests before handing them
// to the backend client. It never persists bookings itself.
type DefaultBookingService struct {
	Client   BackendClient
	Catalog  catalog.ServiceCatalog
	Location *time.Location
	Logger   *zap.Logger
}

func NewBookingService(client BackendClient, cat catalog.ServiceCatalog, loc *time.Location, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{Client: client, Catalog: cat, Location: loc, Logger: logger}
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" {
		return nil, NewBookingError(CodeValidation, "client name is required")
	}
	if phone == "" {
		return nil, NewBookingError(CodeValidation, "client phone is required")
	}
	if req.Start.IsZero() {
		return nil, NewBookingError(CodeValidation, "start time is required")
	}

	duration, meta, err := s.resolveServices(req.ServiceIDs, req.DurationMin)
	if err != nil {
		return nil, err
	}

	staffID := req.StaffID
	if staffID == "" {
		staffID = anyStaffID
	}

	start := req.Start.In(s.Location)
	end := start.Add(time.Duration(duration) * time.Minute)

	payload := BookPayload{
		Name:           name,
		Phone:          phone,
		StartISO:       start.Format(time.RFC3339),
		EndISO:         end.Format(time.RFC3339),
		StaffID:        staffID,
		Services:       req.ServiceIDs,
		ServicesMeta:   meta,
		DurationMin:    duration,
		TimeZone:       s.Location.String(),
		IdempotencyKey: IdempotencyKey(req.SessionID, start, phone),
	}

	booking, err := s.Client.Book(ctx, payload)
	if err != nil {
		return nil, markReverify(err)
	}
	if booking.Deduplicated {
		s.Logger.Info("backend deduplicated create",
			zap.String("bookingID", booking.ID),
			zap.String("staffID", booking.StaffID))
	}
	return booking, nil
}

func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, req models.RescheduleBookingRequest) (*models.Booking, error) {
	if req.BookingID == "" {
		return nil, NewBookingError(CodeValidation, "booking id is required")
	}
	if req.NewStart.IsZero() {
		return nil, NewBookingError(CodeValidation, "new start time is required")
	}
	payload := ReschedulePayload{
		BookingID:   req.BookingID,
		StaffID:     req.StaffID,
		NewStartISO: req.NewStart.In(s.Location).Format(time.RFC3339),
		DurationMin: req.DurationMin,
	}
	return s.Client.Reschedule(ctx, payload)
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, req models.CancelBookingRequest) error {
	if req.BookingID == "" {
		return NewBookingError(CodeValidation, "booking id is required")
	}
	return s.Client.Cancel(ctx, CancelPayload{BookingID: req.BookingID, StaffID: req.StaffID})
}

func (s *DefaultBookingService) FindBookingsByPhone(ctx context.Context, req models.FindBookingsRequest) ([]models.Booking, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, NewBookingError(CodeValidation, "client phone is required")
	}
	days := req.Days
	if days <= 0 {
		days = defaultFindDays
	}
	return s.Client.FindByPhone(ctx, FindPayload{Phone: phone, StaffID: req.StaffID, Days: days})
}

// resolveServices turns the requested service bundle into a total duration
// and backend metadata. An explicit duration wins over the catalog sum.
func (s *DefaultBookingService) resolveServices(serviceIDs []string, durationMin int) (int, []ServiceMeta, error) {
	meta := make([]ServiceMeta, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, err := s.Catalog.ServiceByID(id)
		if err != nil {
			return 0, nil, NewBookingError(CodeValidation, err.Error())
		}
		meta = append(meta, ServiceMeta{
			ID:          svc.ID,
			Name:        svc.Name,
			PriceText:   svc.PriceText,
			DurationMin: svc.DurationMin,
		})
	}

	if durationMin > 0 {
		return durationMin, meta, nil
	}
	duration, err := s.Catalog.ResolveDuration(serviceIDs)
	if err != nil {
		return 0, nil, NewBookingError(CodeValidation, err.Error())
	}
	return duration, meta, nil
}

// markReverify flags indeterminate create failures. On a timeout or an
// unreachable backend the booking may still have been committed, so the
// caller should re-verify via find before retrying.
func markReverify(err error) error {
	if be, ok := AsBookingError(err); ok {
		if be.Code == CodeTimeout || be.Code == CodeUnreachable {
			be.ReverifyAdvised = true
		}
	}
	return err
}
