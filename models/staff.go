package models

// ShiftRange is one working-hours range within a day, in minutes from
// midnight, half-open: a staff member working [600, 1200) is free to take a
// booking ending exactly at minute 1200.
type ShiftRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Staff is one salon staff member with a weekly shift pattern.
// Immutable once loaded at startup.
type Staff struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"summary,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	// Shifts maps weekday names ("Mon".."Sun") to ordered shift ranges.
	Shifts        map[string][]ShiftRange `json:"shifts"`
	WeeklyDaysOff []string                `json:"weekly_days_off,omitempty"`
	// TimeOffDates are ISO dates ("2006-01-02") the member is away.
	TimeOffDates []string `json:"time_off_dates,omitempty"`
}

// StoreInfo describes the salon itself. Hours and closed days apply to every
// staff member; holidays close the whole store.
type StoreInfo struct {
	Name       string                  `json:"name"`
	Address    string                  `json:"address,omitempty"`
	Phone      string                  `json:"phone,omitempty"`
	Email      string                  `json:"email,omitempty"`
	Timezone   string                  `json:"timezone"`
	Hours      map[string][]ShiftRange `json:"hours"`
	ClosedDays []string                `json:"closed_days,omitempty"`
	Holidays   []string                `json:"holidays,omitempty"`
}

// StaffDayStatus reports whether a staff member works on a given date and why
// not, if they don't.
type StaffDayStatus struct {
	StaffID     string       `json:"staff_id"`
	Date        string       `json:"date"`
	Weekday     string       `json:"weekday"`
	Working     bool         `json:"working"`
	Shifts      []ShiftRange `json:"shifts"`
	DayOffReason string      `json:"day_off_reason,omitempty"` // store_closed | holiday | weekly_day_off | time_off
}
