package booking

import (
	"errors"
	"fmt"
)

const (
	CodeTimeConflict = "time_conflict"
	CodeNotFound     = "not_found"
	CodeValidation   = "validation_error"
	CodeTimeout      = "timeout"
	CodeUnreachable  = "unreachable"
)

// BookingError is the typed outcome of a failed backend operation. A
// TimeConflict is an expected, recoverable result: the caller should
// re-query availability, not treat it as fatal.
type BookingError struct {
	Code    string
	Message string
	// ReverifyAdvised marks create failures where the backend may still
	// have committed the booking (timeout, transport loss, cancellation).
	// Callers must re-query via find before assuming the create failed.
	ReverifyAdvised bool
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBookingError(code, msg string) *BookingError {
	return &BookingError{Code: code, Message: msg}
}

// AsBookingError unwraps err into a *BookingError if it is one.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsTimeConflict reports whether err is the backend's conflict result.
func IsTimeConflict(err error) bool {
	be, ok := AsBookingError(err)
	return ok && be.Code == CodeTimeConflict
}
