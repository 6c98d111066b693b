package models

import "time"

// BookingSession is the only cross-call state the service keeps: the client
// identity gathered during a conversation, held in redis until the booking
// is confirmed or the TTL expires. Its id anchors idempotency keys, so a
// retried confirm for the same conversation collapses into one booking.
type BookingSession struct {
	SessionID  string    `json:"sessionID"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	ServiceIDs []string  `json:"serviceIds,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
