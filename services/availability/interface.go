package availability

import (
	"context"
	"time"

	"salonbook/models"
)

// BusySource supplies externally reported occupied ranges for one staff
// member over a date window. Implementations must tolerate partial and empty
// results; the engine treats a failing source as that staff being
// unavailable for the query, not as a fatal error.
type BusySource interface {
	GetBusy(ctx context.Context, staffID string, from, to time.Time) ([]models.BusyInterval, error)
}

// Party strategies (see PARTY_STRATEGY).
const (
	PartyParallel   = "parallel"   // N distinct staff at one identical start
	PartySequential = "sequential" // one staff, N back-to-back windows
)

// SuggestRequest asks for feasible appointment windows.
type SuggestRequest struct {
	// ServiceIDs is the requested bundle; DurationMin overrides catalog
	// resolution when set. One of the two must be provided.
	ServiceIDs  []string
	DurationMin int
	// StaffID restricts the search to one staff member. Empty or "any"
	// searches the whole directory.
	StaffID string
	// From is the earliest acceptable start. Zero means now.
	From time.Time
	// Days is the search window length; zero uses the configured default.
	Days int
	// Party is the number of simultaneous clients, clamped to [1, 4].
	Party int
	// Limit caps the number of returned candidates (or groups).
	Limit int
	// Cursor resumes a previous query: only starts strictly after it are
	// returned. QueryID, minted on the first page, keys the per-query busy
	// cache so paging does not re-read calendars mid-query.
	Cursor  *time.Time
	QueryID string
}

// SuggestResult is one page of candidates.
type SuggestResult struct {
	QueryID string
	// Slots is populated for party == 1, Groups for party > 1.
	Slots  []models.SlotCandidate
	Groups []models.SlotGroup
	// NextCursor is the start of the last returned entry; pass it back to
	// resume. Nil when the page is empty.
	NextCursor *time.Time
	// DegradedStaff lists staff excluded because their busy source failed.
	DegradedStaff []string
}

// Engine produces ordered, restartable sequences of slot candidates.
type Engine interface {
	Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error)
}
