package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salonbook/services/booking"
	"salonbook/services/catalog"
	"salonbook/utils"
)

// respondError maps the typed service errors to HTTP statuses; anything
// untyped becomes a 500.
func respondError(c *gin.Context, err error) {
	if ce, ok := catalog.AsCatalogError(err); ok {
		status := http.StatusBadRequest
		if ce.Code == catalog.CodeUnknownStaff || ce.Code == catalog.CodeUnknownService {
			status = http.StatusNotFound
		}
		utils.JSONError(c, status, ce.Code, ce.Message)
		return
	}
	if be, ok := booking.AsBookingError(err); ok {
		status := http.StatusBadGateway
		switch be.Code {
		case booking.CodeValidation:
			status = http.StatusBadRequest
		case booking.CodeNotFound:
			status = http.StatusNotFound
		case booking.CodeTimeConflict:
			status = http.StatusConflict
		case booking.CodeTimeout:
			status = http.StatusGatewayTimeout
		case booking.CodeUnreachable:
			status = http.StatusBadGateway
		}
		if be.ReverifyAdvised {
			c.Header("X-Reverify-Advised", "true")
		}
		utils.JSONError(c, status, be.Code, be.Message)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal_error", err.Error())
}
