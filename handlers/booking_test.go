package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/booking"
)

type stubBookingService struct {
	createErr error
	created   *models.Booking
}

func (s *stubBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubBookingService) RescheduleBooking(ctx context.Context, req models.RescheduleBookingRequest) (*models.Booking, error) {
	return nil, booking.NewBookingError(booking.CodeNotFound, "booking not found")
}

func (s *stubBookingService) CancelBooking(ctx context.Context, req models.CancelBookingRequest) error {
	return nil
}

func (s *stubBookingService) FindBookingsByPhone(ctx context.Context, req models.FindBookingsRequest) ([]models.Booking, error) {
	return nil, nil
}

type nopSessionStore struct{}

func (nopSessionStore) Create(ctx context.Context, session *models.BookingSession) (string, error) {
	return "sess-1", nil
}

func (nopSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return &models.BookingSession{SessionID: sessionID}, nil
}

func (nopSessionStore) Update(ctx context.Context, session *models.BookingSession) error { return nil }

func (nopSessionStore) Delete(ctx context.Context, sessionID string) error { return nil }

func newBookingRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(svc, nopSessionStore{}, zap.NewNop())
	r := gin.New()
	r.POST("/api/booking/book", h.CreateBooking)
	r.POST("/api/booking/reschedule", h.RescheduleBooking)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBookBody = `{"name":"Carmen","phone":"+34600000001","start":"2026-09-01T10:00:00Z","serviceIds":["cut"]}`

func TestCreateBookingSuccess(t *testing.T) {
	r := newBookingRouter(&stubBookingService{created: &models.Booking{ID: "bk-1"}})

	w := postJSON(t, r, "/api/booking/book", validBookBody)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK      bool           `json:"ok"`
		Booking models.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "bk-1", body.Booking.ID)
}

func TestCreateBookingErrorStatuses(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{booking.CodeValidation, http.StatusBadRequest},
		{booking.CodeNotFound, http.StatusNotFound},
		{booking.CodeTimeConflict, http.StatusConflict},
		{booking.CodeTimeout, http.StatusGatewayTimeout},
		{booking.CodeUnreachable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		r := newBookingRouter(&stubBookingService{createErr: booking.NewBookingError(tc.code, "boom")})

		w := postJSON(t, r, "/api/booking/book", validBookBody)
		assert.Equal(t, tc.status, w.Code, tc.code)

		var body struct {
			OK    bool `json:"ok"`
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.OK, tc.code)
		assert.Equal(t, tc.code, body.Error.Code)
	}
}

func TestCreateBookingReverifyHeader(t *testing.T) {
	err := booking.NewBookingError(booking.CodeTimeout, "timed out")
	err.ReverifyAdvised = true
	r := newBookingRouter(&stubBookingService{createErr: err})

	w := postJSON(t, r, "/api/booking/book", validBookBody)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Reverify-Advised"))
}

func TestCreateBookingRejectsBadStart(t *testing.T) {
	r := newBookingRouter(&stubBookingService{})

	w := postJSON(t, r, "/api/booking/book", `{"name":"Carmen","start":"tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescheduleNotFound(t *testing.T) {
	r := newBookingRouter(&stubBookingService{})

	w := postJSON(t, r, "/api/booking/reschedule", `{"bookingId":"bk-404","newStart":"2026-09-01T11:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
