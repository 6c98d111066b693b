package catalog

import (
	"time"

	"salonbook/models"
)

// ServiceCatalog resolves service ids to catalog entries and durations.
type ServiceCatalog interface {
	ListServices() []models.Service
	ServiceByID(id string) (*models.Service, error)
	// ResolveDuration sums the durations of every service in the bundle.
	// It fails with unknown_service if any id is absent and with
	// empty_bundle for a zero-service request.
	ResolveDuration(serviceIDs []string) (int, error)
}

// StaffDirectory answers staff identity and working-hours questions.
type StaffDirectory interface {
	ListStaff() []models.Staff
	StaffByID(id string) (*models.Staff, error)
	// ShiftsFor returns the ordered shift ranges for a staff member on a
	// date, or an empty slice (not an error) when the member does not work
	// that day: store closed, holiday, weekly day off or dated time off.
	ShiftsFor(staffID string, date time.Time) ([]models.ShiftRange, error)
	StaffDay(staffID string, date time.Time) (*models.StaffDayStatus, error)
	StaffWeek(staffID string, start time.Time, days int) ([]models.StaffDayStatus, error)
	Store() models.StoreInfo
	Location() *time.Location
}
