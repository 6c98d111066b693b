package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salonbook/config"
	"salonbook/models"
)

// SalonDB holds the static salon definitions, loaded once at process start
// and read-only thereafter.
type SalonDB struct {
	Store    models.StoreInfo
	Services []models.Service
	Staff    []models.Staff
	Location *time.Location
}

// DB is the global salon data instance.
var DB *SalonDB

// InitDB loads the salon definition files from the configured data dir.
func InitDB() {
	db, err := Load(config.AppConfig.DataDir, config.AppConfig.Timezone)
	if err != nil {
		log.Fatalf("failed to load salon data: %v", err)
	}
	DB = db
	log.Printf("Loaded salon data: %d services, %d staff", len(db.Services), len(db.Staff))
}

type servicesFile struct {
	Currency string `json:"currency"`
	Services []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		DurationMin int     `json:"duration_min"`
		Price       float64 `json:"price"`
		PriceText   string  `json:"price_text"`
	} `json:"services"`
}

type staffFile struct {
	Staff []struct {
		ID            string              `json:"id"`
		Name          string              `json:"name"`
		Summary       string              `json:"summary"`
		Specialties   []string            `json:"specialties"`
		Shifts        map[string][]string `json:"shifts"`
		WeeklyDaysOff []string            `json:"weekly_days_off"`
		TimeOffDates  []string            `json:"time_off_dates"`
	} `json:"staff"`
}

type storeFile struct {
	Name       string              `json:"name"`
	Address    string              `json:"address"`
	Phone      string              `json:"phone"`
	Email      string              `json:"email"`
	Timezone   string              `json:"timezone"`
	Hours      map[string][]string `json:"hours"`
	ClosedDays []string            `json:"closed_days"`
	Holidays   []string            `json:"holidays"`
}

// Load reads services.json, staff.json and store.json from baseDir.
// Shift ranges are stored as "HH:MM-HH:MM" strings in the files and parsed
// once here into minutes from midnight.
func Load(baseDir, fallbackTZ string) (*SalonDB, error) {
	var svcFile servicesFile
	if err := readJSON(filepath.Join(baseDir, "services.json"), &svcFile); err != nil {
		return nil, fmt.Errorf("services.json: %w", err)
	}
	var stfFile staffFile
	if err := readJSON(filepath.Join(baseDir, "staff.json"), &stfFile); err != nil {
		return nil, fmt.Errorf("staff.json: %w", err)
	}
	var stoFile storeFile
	if err := readJSON(filepath.Join(baseDir, "store.json"), &stoFile); err != nil {
		return nil, fmt.Errorf("store.json: %w", err)
	}

	tzName := stoFile.Timezone
	if tzName == "" {
		tzName = fallbackTZ
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("bad timezone %q: %w", tzName, err)
	}

	storeHours, err := parseWeeklyRanges(stoFile.Hours)
	if err != nil {
		return nil, fmt.Errorf("store hours: %w", err)
	}
	store := models.StoreInfo{
		Name:       stoFile.Name,
		Address:    stoFile.Address,
		Phone:      stoFile.Phone,
		Email:      stoFile.Email,
		Timezone:   tzName,
		Hours:      storeHours,
		ClosedDays: stoFile.ClosedDays,
		Holidays:   stoFile.Holidays,
	}

	services := make([]models.Service, 0, len(svcFile.Services))
	for _, s := range svcFile.Services {
		if s.ID == "" {
			return nil, fmt.Errorf("service with empty id")
		}
		if s.DurationMin <= 0 {
			return nil, fmt.Errorf("service %s has non-positive duration", s.ID)
		}
		services = append(services, models.Service{
			ID:          s.ID,
			Name:        s.Name,
			Category:    s.Category,
			DurationMin: s.DurationMin,
			Price:       s.Price,
			PriceText:   s.PriceText,
		})
	}

	staff := make([]models.Staff, 0, len(stfFile.Staff))
	for _, m := range stfFile.Staff {
		if m.ID == "" {
			return nil, fmt.Errorf("staff member with empty id")
		}
		shifts := m.Shifts
		if len(shifts) == 0 {
			// Staff without an explicit schedule inherit the store hours.
			shifts = stoFile.Hours
		}
		parsed, err := parseWeeklyRanges(shifts)
		if err != nil {
			return nil, fmt.Errorf("staff %s shifts: %w", m.ID, err)
		}
		staff = append(staff, models.Staff{
			ID:            m.ID,
			Name:          m.Name,
			Summary:       m.Summary,
			Specialties:   m.Specialties,
			Shifts:        parsed,
			WeeklyDaysOff: m.WeeklyDaysOff,
			TimeOffDates:  m.TimeOffDates,
		})
	}

	return &SalonDB{
		Store:    store,
		Services: services,
		Staff:    staff,
		Location: loc,
	}, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func parseWeeklyRanges(weekly map[string][]string) (map[string][]models.ShiftRange, error) {
	out := make(map[string][]models.ShiftRange, len(weekly))
	for day, ranges := range weekly {
		for _, raw := range ranges {
			r, err := ParseRange(raw)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", day, raw, err)
			}
			out[day] = append(out[day], r)
		}
	}
	return out, nil
}

// ParseRange parses a "HH:MM-HH:MM" range into minutes from midnight.
func ParseRange(raw string) (models.ShiftRange, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return models.ShiftRange{}, fmt.Errorf("expected HH:MM-HH:MM")
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return models.ShiftRange{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return models.ShiftRange{}, err
	}
	if end <= start {
		return models.ShiftRange{}, fmt.Errorf("range end before start")
	}
	return models.ShiftRange{Start: start, End: end}, nil
}

func parseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad time value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad minute in %q", raw)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range %q", raw)
	}
	return hour*60 + minute, nil
}
