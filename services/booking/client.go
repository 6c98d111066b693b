package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"salonbook/models"
)

// WorkflowPaths are the backend endpoint paths for each operation.
type WorkflowPaths struct {
	Book       string
	Reschedule string
	Cancel     string
	Find       string
	Busy       string
}

// WorkflowClient talks to the external workflow backend that owns the
// calendar. One HTTP call per operation, strict per-call timeout, no retry:
// retries and backoff are the caller's concern, and the backend's
// idempotency-key dedup makes a caller retry of create safe.
type WorkflowClient struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Paths    WorkflowPaths
	// CalendarMap translates staff ids to backing calendar ids for busy
	// lookups. Unmapped staff behave as having an empty calendar.
	CalendarMap map[string]string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// BackendClient is the wire-level contract the lifecycle service drives.
type BackendClient interface {
	Book(ctx context.Context, payload BookPayload) (*models.Booking, error)
	Reschedule(ctx context.Context, payload ReschedulePayload) (*models.Booking, error)
	Cancel(ctx context.Context, payload CancelPayload) error
	FindByPhone(ctx context.Context, payload FindPayload) ([]models.Booking, error)
}

// ServiceMeta is the per-service detail the backend stores on the event.
type ServiceMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceText   string `json:"price_text,omitempty"`
	DurationMin int    `json:"duration_min"`
}

// BookPayload mirrors the backend's create contract.
type BookPayload struct {
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	StartISO       string        `json:"start_iso"`
	EndISO         string        `json:"end_iso"`
	StaffID        string        `json:"staff_id"`
	Services       []string      `json:"services"`
	ServicesMeta   []ServiceMeta `json:"services_meta,omitempty"`
	DurationMin    int           `json:"duration_min"`
	TimeZone       string        `json:"timeZone"`
	IdempotencyKey string        `json:"idempotency_key"`
}

type ReschedulePayload struct {
	BookingID   string `json:"booking_id"`
	StaffID     string `json:"staff_id"`
	NewStartISO string `json:"new_start_iso"`
	DurationMin int    `json:"duration_min,omitempty"`
}

type CancelPayload struct {
	BookingID string `json:"booking_id"`
	StaffID   string `json:"staff_id"`
}

type FindPayload struct {
	Phone   string `json:"phone"`
	StaffID string `json:"staff_id"`
	Days    int    `json:"days"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	OK    bool      `json:"ok"`
	Error *apiError `json:"error,omitempty"`
}

type bookingBody struct {
	BookingID    string   `json:"booking_id"`
	StaffID      string   `json:"staff_id"`
	StartISO     string   `json:"start_iso"`
	EndISO       string   `json:"end_iso"`
	Services     []string `json:"services,omitempty"`
	Name         string   `json:"name,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Deduplicated bool     `json:"deduplicated,omitempty"`
}

type bookResponse struct {
	envelope
	bookingBody
}

type findResponse struct {
	envelope
	Bookings []bookingBody `json:"bookings"`
}

type busyResponse struct {
	envelope
	Busy []struct {
		StartISO string `json:"start_iso"`
		EndISO   string `json:"end_iso"`
	} `json:"busy"`
}

func (c *WorkflowClient) Book(ctx context.Context, payload BookPayload) (*models.Booking, error) {
	var resp bookResponse
	if err := c.post(ctx, c.Paths.Book, payload, &resp); err != nil {
		return nil, err
	}
	booking, err := resp.bookingBody.toModel()
	if err != nil {
		return nil, NewBookingError(CodeUnreachable, fmt.Sprintf("backend returned malformed booking: %v", err))
	}
	if booking.ClientName == "" {
		booking.ClientName = payload.Name
	}
	if booking.Phone == "" {
		booking.Phone = payload.Phone
	}
	return booking, nil
}

func (c *WorkflowClient) Reschedule(ctx context.Context, payload ReschedulePayload) (*models.Booking, error) {
	var resp bookResponse
	if err := c.post(ctx, c.Paths.Reschedule, payload, &resp); err != nil {
		return nil, err
	}
	booking, err := resp.bookingBody.toModel()
	if err != nil {
		return nil, NewBookingError(CodeUnreachable, fmt.Sprintf("backend returned malformed booking: %v", err))
	}
	if booking.ID == "" {
		booking.ID = payload.BookingID
	}
	return booking, nil
}

func (c *WorkflowClient) Cancel(ctx context.Context, payload CancelPayload) error {
	var resp bookResponse
	return c.post(ctx, c.Paths.Cancel, payload, &resp)
}

func (c *WorkflowClient) FindByPhone(ctx context.Context, payload FindPayload) ([]models.Booking, error) {
	var resp findResponse
	if err := c.post(ctx, c.Paths.Find, payload, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(resp.Bookings))
	for _, b := range resp.Bookings {
		booking, err := b.toModel()
		if err != nil {
			c.Logger.Warn("skipping malformed booking in find response", zap.Error(err))
			continue
		}
		out = append(out, *booking)
	}
	return out, nil
}

// GetBusy implements the availability engine's BusySource against the
// backend's calendar endpoint. Staff without a calendar mapping report an
// empty busy set.
func (c *WorkflowClient) GetBusy(ctx context.Context, staffID string, from, to time.Time) ([]models.BusyInterval, error) {
	calendarID, ok := c.CalendarMap[staffID]
	if !ok {
		return nil, nil
	}
	payload := map[string]string{
		"staff_id":    staffID,
		"calendar_id": calendarID,
		"from_iso":    from.Format(time.RFC3339),
		"to_iso":      to.Format(time.RFC3339),
	}
	var resp busyResponse
	if err := c.post(ctx, c.Paths.Busy, payload, &resp); err != nil {
		return nil, err
	}
	out := make([]models.BusyInterval, 0, len(resp.Busy))
	for _, b := range resp.Busy {
		start, err := time.Parse(time.RFC3339, b.StartISO)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, b.EndISO)
		if err != nil {
			continue
		}
		out = append(out, models.BusyInterval{StaffID: staffID, Start: start, End: end})
	}
	return out, nil
}

func (c *WorkflowClient) post(ctx context.Context, path string, payload, out any) error {
	if c.BaseURL == "" {
		return NewBookingError(CodeUnreachable, "workflow backend is not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return NewBookingError(CodeValidation, fmt.Sprintf("cannot encode request: %v", err))
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return NewBookingError(CodeUnreachable, fmt.Sprintf("cannot build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return NewBookingError(CodeTimeout, fmt.Sprintf("backend call to %s timed out after %s", path, timeout))
		}
		if errors.Is(err, context.Canceled) {
			return NewBookingError(CodeTimeout, fmt.Sprintf("backend call to %s was cancelled", path))
		}
		return NewBookingError(CodeUnreachable, fmt.Sprintf("backend call to %s failed: %v", path, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NewBookingError(CodeUnreachable, fmt.Sprintf("reading backend response: %v", err))
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return NewBookingError(CodeTimeConflict, envMessage(env, "requested time is no longer free"))
	case resp.StatusCode == http.StatusNotFound:
		return NewBookingError(CodeNotFound, envMessage(env, "booking not found"))
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return NewBookingError(CodeValidation, envMessage(env, "backend rejected the request"))
	case resp.StatusCode != http.StatusOK:
		return NewBookingError(CodeUnreachable, fmt.Sprintf("backend returned status %d", resp.StatusCode))
	}

	if !env.OK {
		return envelopeError(env)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return NewBookingError(CodeUnreachable, fmt.Sprintf("decoding backend response: %v", err))
		}
	}
	return nil
}

// envelopeError maps an ok:false body on a 200 response to the same typed
// errors as the status codes; some workflow deployments report conflicts
// only in the body.
func envelopeError(env envelope) error {
	code := ""
	if env.Error != nil {
		code = env.Error.Code
	}
	switch code {
	case CodeTimeConflict:
		return NewBookingError(CodeTimeConflict, envMessage(env, "requested time is no longer free"))
	case CodeNotFound:
		return NewBookingError(CodeNotFound, envMessage(env, "booking not found"))
	case CodeValidation:
		return NewBookingError(CodeValidation, envMessage(env, "backend rejected the request"))
	default:
		return NewBookingError(CodeUnreachable, envMessage(env, "backend reported failure"))
	}
}

func envMessage(env envelope, fallback string) string {
	if env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return fallback
}

func (b bookingBody) toModel() (*models.Booking, error) {
	booking := &models.Booking{
		ID:           b.BookingID,
		StaffID:      b.StaffID,
		ClientName:   b.Name,
		Phone:        b.Phone,
		ServiceIDs:   b.Services,
		Deduplicated: b.Deduplicated,
	}
	if b.StartISO != "" {
		start, err := time.Parse(time.RFC3339, b.StartISO)
		if err != nil {
			return nil, fmt.Errorf("bad start_iso %q", b.StartISO)
		}
		booking.Start = start
	}
	if b.EndISO != "" {
		end, err := time.Parse(time.RFC3339, b.EndISO)
		if err != nil {
			return nil, fmt.Errorf("bad end_iso %q", b.EndISO)
		}
		booking.End = end
	}
	return booking, nil
}
