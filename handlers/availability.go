package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/services/availability"
	"salonbook/utils"
)

// AvailabilityHandler serves slot suggestions.
type AvailabilityHandler struct {
	Engine availability.Engine
	Logger *zap.Logger
}

func NewAvailabilityHandler(engine availability.Engine, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Logger: logger}
}

type suggestInput struct {
	ServiceIDs  []string `json:"serviceIds"`
	DurationMin int      `json:"durationMin"`
	StaffID     string   `json:"staffId"`
	From        string   `json:"from"`
	Days        int      `json:"days"`
	Party       int      `json:"party"`
	Limit       int      `json:"limit"`
	Cursor      string   `json:"cursor"`
	QueryID     string   `json:"queryId"`
}

// Suggest returns the next batch of bookable slots. Repeating the call with
// the returned queryId and cursor continues the same search.
func (h *AvailabilityHandler) Suggest(c *gin.Context) {
	var input suggestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	req := availability.SuggestRequest{
		ServiceIDs:  input.ServiceIDs,
		DurationMin: input.DurationMin,
		StaffID:     input.StaffID,
		Days:        input.Days,
		Party:       input.Party,
		Limit:       input.Limit,
		QueryID:     input.QueryID,
	}
	if input.From != "" {
		from, err := time.Parse(time.RFC3339, input.From)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_input", "from must be RFC3339")
			return
		}
		req.From = from
	}
	if input.Cursor != "" {
		cursor, err := time.Parse(time.RFC3339, input.Cursor)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_input", "cursor must be RFC3339")
			return
		}
		req.Cursor = &cursor
	}

	result, err := h.Engine.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"ok":      true,
		"queryId": result.QueryID,
		"slots":   result.Slots,
	}
	if len(result.Groups) > 0 {
		resp["groups"] = result.Groups
	}
	if result.NextCursor != nil {
		resp["nextCursor"] = result.NextCursor.Format(time.RFC3339)
	}
	if len(result.DegradedStaff) > 0 {
		resp["degradedStaff"] = result.DegradedStaff
		h.Logger.Warn("suggest served with degraded staff",
			zap.String("queryID", result.QueryID),
			zap.Strings("staff", result.DegradedStaff))
	}
	c.JSON(http.StatusOK, resp)
}
