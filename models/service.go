package models

// Service is one bookable treatment from the salon catalog.
// Immutable once loaded at startup.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price,omitempty"` // informational only
	PriceText   string  `json:"price_text,omitempty"`
}
