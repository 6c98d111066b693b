package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salonbook/services/catalog"
	"salonbook/utils"
)

// CatalogHandler exposes the read-only catalog and staff directory.
type CatalogHandler struct {
	Catalog   catalog.ServiceCatalog
	Directory catalog.StaffDirectory
	Logger    *zap.Logger
}

func NewCatalogHandler(cat catalog.ServiceCatalog, dir catalog.StaffDirectory, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: cat, Directory: dir, Logger: logger}
}

// ListServices returns every bookable service.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": h.Catalog.ListServices()})
}

// GetService returns one service by id.
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, err := h.Catalog.ServiceByID(c.Param("serviceID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": svc})
}

// ListStaff returns the full staff roster.
func (h *CatalogHandler) ListStaff(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "staff": h.Directory.ListStaff()})
}

// GetStaffWeek returns day-by-day working status for one staff member.
func (h *CatalogHandler) GetStaffWeek(c *gin.Context) {
	staffID := c.Param("staffID")

	start := time.Now().In(h.Directory.Location())
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Directory.Location())
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_date", "from must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid_days", "days must be a positive integer")
			return
		}
		days = parsed
	}

	week, err := h.Directory.StaffWeek(staffID, start, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "week": week})
}

// GetStaffDay returns one staff member's working status for a single date.
func (h *CatalogHandler) GetStaffDay(c *gin.Context) {
	staffID := c.Param("staffID")

	date := time.Now().In(h.Directory.Location())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.Directory.Location())
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	status, err := h.Directory.StaffDay(staffID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "day": status})
}

// GetStoreInfo returns address, hours and holidays.
func (h *CatalogHandler) GetStoreInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "store": h.Directory.Store()})
}
