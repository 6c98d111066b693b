package catalog

import (
	"sort"
	"time"

	"salonbook/database"
	"salonbook/models"
)

// Weekday keys used throughout the salon data ("Mon".."Sun").
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayName returns the salon-data key for a date's weekday.
func WeekdayName(t time.Time) string {
	return weekdayNames[int(t.Weekday())]
}

// DefaultStaffDirectory implements StaffDirectory over the static salon data.
type DefaultStaffDirectory struct {
	staff    []models.Staff
	byID     map[string]*models.Staff
	store    models.StoreInfo
	loc      *time.Location
	holidays map[string]bool
	closed   map[string]bool
}

func NewStaffDirectory(db *database.SalonDB) *DefaultStaffDirectory {
	d := &DefaultStaffDirectory{
		staff:    db.Staff,
		byID:     make(map[string]*models.Staff, len(db.Staff)),
		store:    db.Store,
		loc:      db.Location,
		holidays: make(map[string]bool, len(db.Store.Holidays)),
		closed:   make(map[string]bool, len(db.Store.ClosedDays)),
	}
	for i := range d.staff {
		d.byID[d.staff[i].ID] = &d.staff[i]
	}
	for _, h := range db.Store.Holidays {
		d.holidays[h] = true
	}
	for _, c := range db.Store.ClosedDays {
		d.closed[c] = true
	}
	return d
}

func (d *DefaultStaffDirectory) ListStaff() []models.Staff {
	return d.staff
}

func (d *DefaultStaffDirectory) StaffByID(id string) (*models.Staff, error) {
	m, ok := d.byID[id]
	if !ok {
		return nil, NewUnknownStaffError(id)
	}
	return m, nil
}

func (d *DefaultStaffDirectory) Store() models.StoreInfo {
	return d.store
}

func (d *DefaultStaffDirectory) Location() *time.Location {
	return d.loc
}

func (d *DefaultStaffDirectory) ShiftsFor(staffID string, date time.Time) ([]models.ShiftRange, error) {
	status, err := d.StaffDay(staffID, date)
	if err != nil {
		return nil, err
	}
	return status.Shifts, nil
}

func (d *DefaultStaffDirectory) StaffDay(staffID string, date time.Time) (*models.StaffDayStatus, error) {
	m, ok := d.byID[staffID]
	if !ok {
		return nil, NewUnknownStaffError(staffID)
	}

	local := date.In(d.loc)
	weekday := WeekdayName(local)
	dateKey := local.Format("2006-01-02")

	status := &models.StaffDayStatus{
		StaffID: staffID,
		Date:    dateKey,
		Weekday: weekday,
		Shifts:  []models.ShiftRange{},
	}

	switch {
	case d.closed[weekday]:
		status.DayOffReason = "store_closed"
	case d.holidays[dateKey]:
		status.DayOffReason = "holiday"
	case contains(m.WeeklyDaysOff, weekday):
		status.DayOffReason = "weekly_day_off"
	case contains(m.TimeOffDates, dateKey):
		status.DayOffReason = "time_off"
	default:
		shifts := append([]models.ShiftRange(nil), m.Shifts[weekday]...)
		sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start < shifts[j].Start })
		status.Shifts = shifts
		status.Working = len(shifts) > 0
	}
	return status, nil
}

func (d *DefaultStaffDirectory) StaffWeek(staffID string, start time.Time, days int) ([]models.StaffDayStatus, error) {
	if days < 1 {
		days = 1
	}
	if days > 14 {
		days = 14
	}
	out := make([]models.StaffDayStatus, 0, days)
	for offset := 0; offset < days; offset++ {
		status, err := d.StaffDay(staffID, start.AddDate(0, 0, offset))
		if err != nil {
			return nil, err
		}
		out = append(out, *status)
	}
	return out, nil
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
