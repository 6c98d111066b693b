package models

import "time"

// BusyInterval is an externally reported occupied range on a staff member's
// calendar, half-open [Start, End).
type BusyInterval struct {
	StaffID string    `json:"staff_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// SlotCandidate is a computed, unconfirmed feasible appointment window.
// End is always Start plus the requested total duration. The window is
// guaranteed to sit inside a shift and clear of every known busy interval,
// but only the workflow backend can confirm it.
type SlotCandidate struct {
	StaffID string    `json:"staff_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// SlotGroup is a party result: every member shares the group start under the
// parallel strategy (distinct staff), or follows back-to-back under the
// sequential strategy (same staff).
type SlotGroup struct {
	Start time.Time       `json:"start"`
	Party int             `json:"party"`
	Slots []SlotCandidate `json:"slots"`
}
