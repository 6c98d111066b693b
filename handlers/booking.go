package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"
)

// BookingHandler drives the booking lifecycle and its sessions.
type BookingHandler struct {
	Service  booking.BookingService
	Sessions booking.SessionStore
	Logger   *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, sessions booking.SessionStore, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Sessions: sessions, Logger: logger}
}

// StartSession opens a booking conversation and returns its id.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		Name       string   `json:"name"`
		Phone      string   `json:"phone"`
		ServiceIDs []string `json:"serviceIds"`
		StaffID    string   `json:"staffId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	session := &models.BookingSession{
		Name:       input.Name,
		Phone:      input.Phone,
		ServiceIDs: input.ServiceIDs,
		StaffID:    input.StaffID,
	}
	sessionID, err := h.Sessions.Create(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessionID": sessionID})
}

// UpdateSession merges new details into an existing session.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Name       string   `json:"name"`
		Phone      string   `json:"phone"`
		ServiceIDs []string `json:"serviceIds"`
		StaffID    string   `json:"staffId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	session, err := h.Sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if input.Name != "" {
		session.Name = input.Name
	}
	if input.Phone != "" {
		session.Phone = input.Phone
	}
	if len(input.ServiceIDs) > 0 {
		session.ServiceIDs = input.ServiceIDs
	}
	if input.StaffID != "" {
		session.StaffID = input.StaffID
	}
	if err := h.Sessions.Update(c.Request.Context(), session); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
}

// CancelSession abandons a booking conversation without committing.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.Sessions.Delete(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type confirmInput struct {
	Start       string   `json:"start"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	StaffID     string   `json:"staffId"`
	ServiceIDs  []string `json:"serviceIds"`
	DurationMin int      `json:"durationMin"`
}

// ConfirmBooking commits a session at the chosen start time. Session fields
// act as defaults; inline fields win.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input confirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	start, err := time.Parse(time.RFC3339, input.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "start must be RFC3339")
		return
	}

	session, err := h.Sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	req := models.CreateBookingRequest{
		SessionID:   sessionID,
		Name:        firstNonEmpty(input.Name, session.Name),
		Phone:       firstNonEmpty(input.Phone, session.Phone),
		Start:       start,
		StaffID:     firstNonEmpty(input.StaffID, session.StaffID),
		ServiceIDs:  session.ServiceIDs,
		DurationMin: input.DurationMin,
	}
	if len(input.ServiceIDs) > 0 {
		req.ServiceIDs = input.ServiceIDs
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// The conversation is complete once the backend commits.
	if err := h.Sessions.Delete(c.Request.Context(), sessionID); err != nil {
		h.Logger.Warn("failed to delete booking session", zap.String("sessionID", sessionID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "booking": created})
}

// CreateBooking commits a booking without a stored session.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId"`
		confirmInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	start, err := time.Parse(time.RFC3339, input.Start)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "start must be RFC3339")
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), models.CreateBookingRequest{
		SessionID:   input.SessionID,
		Name:        input.Name,
		Phone:       input.Phone,
		Start:       start,
		StaffID:     input.StaffID,
		ServiceIDs:  input.ServiceIDs,
		DurationMin: input.DurationMin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "booking": created})
}

// RescheduleBooking moves an existing booking to a new start.
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var input struct {
		BookingID   string `json:"bookingId"`
		StaffID     string `json:"staffId"`
		NewStart    string `json:"newStart"`
		DurationMin int    `json:"durationMin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	newStart, err := time.Parse(time.RFC3339, input.NewStart)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "newStart must be RFC3339")
		return
	}

	updated, err := h.Service.RescheduleBooking(c.Request.Context(), models.RescheduleBookingRequest{
		BookingID:   input.BookingID,
		StaffID:     input.StaffID,
		NewStart:    newStart,
		DurationMin: input.DurationMin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "booking": updated})
}

// CancelBooking cancels an existing booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
		StaffID   string `json:"staffId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	if err := h.Service.CancelBooking(c.Request.Context(), models.CancelBookingRequest{
		BookingID: input.BookingID,
		StaffID:   input.StaffID,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// FindBookings looks up upcoming bookings by phone number.
func (h *BookingHandler) FindBookings(c *gin.Context) {
	var input struct {
		Phone   string `json:"phone"`
		StaffID string `json:"staffId"`
		Days    int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	bookings, err := h.Service.FindBookingsByPhone(c.Request.Context(), models.FindBookingsRequest{
		Phone:   input.Phone,
		StaffID: input.StaffID,
		Days:    input.Days,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "bookings": bookings})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
