package models

import "time"

// Booking mirrors a record held by the workflow backend. The engine never
// stores bookings; it only builds requests and interprets responses.
type Booking struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	ClientName string    `json:"client_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ServiceIDs []string  `json:"service_ids,omitempty"`
	// Deduplicated is set when the backend recognised the idempotency key
	// and returned an already-committed booking instead of a fresh one.
	// It is surfaced unchanged, never reinterpreted as a new success.
	Deduplicated bool `json:"deduplicated,omitempty"`
}

// CreateBookingRequest carries everything needed for one create call.
// SessionID feeds idempotency-key derivation; identical (session, start,
// phone) triples always produce the same key.
type CreateBookingRequest struct {
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Start       time.Time `json:"start"`
	StaffID     string    `json:"staff_id"` // "any" lets the backend assign
	ServiceIDs  []string  `json:"service_ids,omitempty"`
	DurationMin int       `json:"duration_min,omitempty"` // overrides catalog resolution when > 0
}

// RescheduleBookingRequest moves an existing booking to a new start.
type RescheduleBookingRequest struct {
	BookingID   string    `json:"booking_id"`
	StaffID     string    `json:"staff_id"`
	NewStart    time.Time `json:"new_start"`
	DurationMin int       `json:"duration_min,omitempty"`
}

// CancelBookingRequest cancels an existing booking.
type CancelBookingRequest struct {
	BookingID string `json:"booking_id"`
	StaffID   string `json:"staff_id"`
}

// FindBookingsRequest looks up bookings by client phone over a day window.
type FindBookingsRequest struct {
	Phone   string `json:"phone"`
	StaffID string `json:"staff_id"`
	Days    int    `json:"days"`
}
