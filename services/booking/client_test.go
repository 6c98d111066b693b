package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *WorkflowClient {
	return &WorkflowClient{
		BaseURL:  baseURL,
		Username: "assistant",
		Password: "secret",
		Timeout:  2 * time.Second,
		Paths: WorkflowPaths{
			Book:       "/api/booking/book",
			Reschedule: "/api/booking/reschedule",
			Cancel:     "/api/booking/cancel",
			Find:       "/api/booking/find-by-phone",
			Busy:       "/api/calendar/busy",
		},
		CalendarMap: map[string]string{"marta": "cal-marta"},
		Logger:      zap.NewNop(),
	}
}

func TestBookSendsAuthAndPayload(t *testing.T) {
	var got BookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/booking/book", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "assistant", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"booking_id": "bk-1",
			"staff_id":   "marta",
			"start_iso":  "2026-09-01T10:00:00Z",
			"end_iso":    "2026-09-01T10:30:00Z",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	booking, err := client.Book(context.Background(), BookPayload{
		Name:           "Carmen",
		Phone:          "+34600000001",
		StartISO:       "2026-09-01T10:00:00Z",
		EndISO:         "2026-09-01T10:30:00Z",
		StaffID:        "marta",
		Services:       []string{"cut"},
		DurationMin:    30,
		IdempotencyKey: "abc123",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", got.IdempotencyKey)
	assert.Equal(t, "Carmen", got.Name)
	assert.Equal(t, "bk-1", booking.ID)
	assert.Equal(t, "marta", booking.StaffID)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), booking.Start.UTC())
	assert.Equal(t, "Carmen", booking.ClientName)
	assert.False(t, booking.Deduplicated)
}

func TestBookSurfacesDeduplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":           true,
			"booking_id":   "bk-1",
			"staff_id":     "marta",
			"deduplicated": true,
		})
	}))
	defer srv.Close()

	booking, err := newTestClient(srv.URL).Book(context.Background(), BookPayload{})
	require.NoError(t, err)
	assert.True(t, booking.Deduplicated)
	assert.Equal(t, "bk-1", booking.ID)
}

func TestBookConflictStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"code": "time_conflict", "message": "slot already taken"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Book(context.Background(), BookPayload{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTimeConflict, be.Code)
	assert.Equal(t, "slot already taken", be.Message)
	assert.True(t, IsTimeConflict(err))
}

// Some deployments answer 200 and report the conflict only in the body.
func TestBookConflictInBodyOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"code": "time_conflict", "message": "taken"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Book(context.Background(), BookPayload{})
	assert.True(t, IsTimeConflict(err))
}

func TestCancelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"code": "not_found", "message": "no such booking"},
		})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Cancel(context.Background(), CancelPayload{BookingID: "bk-404"})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, be.Code)
}

func TestBookValidationStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": map[string]string{"code": "validation_error", "message": "phone is malformed"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Book(context.Background(), BookPayload{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, be.Code)
}

func TestBookTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.Timeout = 50 * time.Millisecond

	_, err := client.Book(context.Background(), BookPayload{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTimeout, be.Code)
}

func TestBookUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Book(context.Background(), BookPayload{})
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnreachable, be.Code)
}

func TestFindByPhoneRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/booking/find-by-phone", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"bookings": []map[string]any{
				{"booking_id": "bk-1", "staff_id": "marta", "start_iso": "2026-09-01T10:00:00Z", "end_iso": "2026-09-01T10:30:00Z"},
				{"booking_id": "bk-2", "staff_id": "lucia", "start_iso": "not-a-date"},
			},
		})
	}))
	defer srv.Close()

	bookings, err := newTestClient(srv.URL).FindByPhone(context.Background(), FindPayload{Phone: "+34600000001", Days: 30})
	require.NoError(t, err)
	// The malformed entry is skipped, not fatal.
	require.Len(t, bookings, 1)
	assert.Equal(t, "bk-1", bookings[0].ID)
}

func TestGetBusyUsesCalendarMap(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cal-marta", payload["calendar_id"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"busy": []map[string]string{
				{"start_iso": "2026-09-01T10:00:00Z", "end_iso": "2026-09-01T10:30:00Z"},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	busy, err := client.GetBusy(context.Background(), "marta", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, "marta", busy[0].StaffID)

	// Unmapped staff never hit the backend and report an empty calendar.
	busy, err = client.GetBusy(context.Background(), "nobody", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, busy)
	assert.Equal(t, 1, calls)
}
