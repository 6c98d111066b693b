package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/catalog"
)

type fakeBackend struct {
	bookPayload   BookPayload
	bookErr       error
	reschedule    ReschedulePayload
	cancelled     CancelPayload
	findPayload   FindPayload
	foundBookings []models.Booking
}

func (f *fakeBackend) Book(ctx context.Context, payload BookPayload) (*models.Booking, error) {
	f.bookPayload = payload
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &models.Booking{ID: "bk-1", StaffID: payload.StaffID}, nil
}

func (f *fakeBackend) Reschedule(ctx context.Context, payload ReschedulePayload) (*models.Booking, error) {
	f.reschedule = payload
	return &models.Booking{ID: payload.BookingID}, nil
}

func (f *fakeBackend) Cancel(ctx context.Context, payload CancelPayload) error {
	f.cancelled = payload
	return nil
}

func (f *fakeBackend) FindByPhone(ctx context.Context, payload FindPayload) ([]models.Booking, error) {
	f.findPayload = payload
	return f.foundBookings, nil
}

type fixedCatalog struct{}

func (fixedCatalog) ListServices() []models.Service { return nil }

func (fixedCatalog) ServiceByID(id string) (*models.Service, error) {
	if id != "cut" {
		return nil, catalog.NewUnknownServiceError(id)
	}
	return &models.Service{ID: "cut", Name: "Corte", DurationMin: 30, PriceText: "15 €"}, nil
}

func (fixedCatalog) ResolveDuration(serviceIDs []string) (int, error) {
	if len(serviceIDs) == 0 {
		return 0, catalog.NewEmptyBundleError()
	}
	return 30 * len(serviceIDs), nil
}

func newLifecycle(backend BackendClient) *DefaultBookingService {
	return NewBookingService(backend, fixedCatalog{}, time.UTC, zap.NewNop())
}

func TestCreateBookingBuildsPayload(t *testing.T) {
	backend := &fakeBackend{}
	svc := newLifecycle(backend)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	booking, err := svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		SessionID:  "sess-1",
		Name:       "Carmen",
		Phone:      "+34600000001",
		Start:      start,
		ServiceIDs: []string{"cut"},
	})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", booking.ID)

	payload := backend.bookPayload
	assert.Equal(t, "Carmen", payload.Name)
	assert.Equal(t, "any", payload.StaffID)
	assert.Equal(t, 30, payload.DurationMin)
	assert.Equal(t, "2026-09-01T10:00:00Z", payload.StartISO)
	assert.Equal(t, "2026-09-01T10:30:00Z", payload.EndISO)
	assert.Equal(t, IdempotencyKey("sess-1", start, "+34600000001"), payload.IdempotencyKey)
	require.Len(t, payload.ServicesMeta, 1)
	assert.Equal(t, "Corte", payload.ServicesMeta[0].Name)
}

func TestCreateBookingValidatesInput(t *testing.T) {
	svc := newLifecycle(&fakeBackend{})
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	cases := []models.CreateBookingRequest{
		{Phone: "+34600000001", Start: start, ServiceIDs: []string{"cut"}},          // no name
		{Name: "Carmen", Start: start, ServiceIDs: []string{"cut"}},                 // no phone
		{Name: "Carmen", Phone: "+34600000001", ServiceIDs: []string{"cut"}},        // no start
		{Name: "Carmen", Phone: "+34600000001", Start: start},                       // no services
		{Name: " ", Phone: "+34600000001", Start: start, ServiceIDs: []string{"cut"}}, // blank name
	}
	for i, req := range cases {
		_, err := svc.CreateBooking(context.Background(), req)
		be, ok := AsBookingError(err)
		require.True(t, ok, "case %d", i)
		assert.Equal(t, CodeValidation, be.Code, "case %d", i)
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	svc := newLifecycle(&fakeBackend{})

	_, err := svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		Name:       "Carmen",
		Phone:      "+34600000001",
		Start:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		ServiceIDs: []string{"massage"},
	})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, be.Code)
}

func TestCreateBookingExplicitDurationWins(t *testing.T) {
	backend := &fakeBackend{}
	svc := newLifecycle(backend)

	_, err := svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		Name:        "Carmen",
		Phone:       "+34600000001",
		Start:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		ServiceIDs:  []string{"cut"},
		DurationMin: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, backend.bookPayload.DurationMin)
	assert.Equal(t, "2026-09-01T10:45:00Z", backend.bookPayload.EndISO)
}

// Indeterminate create failures must advise a re-verify: the backend may
// have committed the booking even though the response never arrived.
func TestCreateBookingAdvisesReverifyOnTimeout(t *testing.T) {
	backend := &fakeBackend{bookErr: NewBookingError(CodeTimeout, "timed out")}
	svc := newLifecycle(backend)

	_, err := svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		Name:       "Carmen",
		Phone:      "+34600000001",
		Start:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		ServiceIDs: []string{"cut"},
	})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.True(t, be.ReverifyAdvised)

	backend.bookErr = NewBookingError(CodeTimeConflict, "taken")
	_, err = svc.CreateBooking(context.Background(), models.CreateBookingRequest{
		Name:       "Carmen",
		Phone:      "+34600000001",
		Start:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		ServiceIDs: []string{"cut"},
	})
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.False(t, be.ReverifyAdvised)
}

func TestRescheduleBookingRequiresID(t *testing.T) {
	svc := newLifecycle(&fakeBackend{})

	_, err := svc.RescheduleBooking(context.Background(), models.RescheduleBookingRequest{
		NewStart: time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, be.Code)
}

func TestRescheduleBookingForwardsNewStart(t *testing.T) {
	backend := &fakeBackend{}
	svc := newLifecycle(backend)

	_, err := svc.RescheduleBooking(context.Background(), models.RescheduleBookingRequest{
		BookingID: "bk-1",
		StaffID:   "marta",
		NewStart:  time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", backend.reschedule.BookingID)
	assert.Equal(t, "2026-09-01T11:00:00Z", backend.reschedule.NewStartISO)
}

func TestCancelBookingRequiresID(t *testing.T) {
	svc := newLifecycle(&fakeBackend{})

	err := svc.CancelBooking(context.Background(), models.CancelBookingRequest{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, be.Code)
}

func TestFindBookingsDefaultsDays(t *testing.T) {
	backend := &fakeBackend{foundBookings: []models.Booking{{ID: "bk-1"}}}
	svc := newLifecycle(backend)

	bookings, err := svc.FindBookingsByPhone(context.Background(), models.FindBookingsRequest{Phone: "+34600000001"})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 30, backend.findPayload.Days)

	_, err = svc.FindBookingsByPhone(context.Background(), models.FindBookingsRequest{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, be.Code)
}
