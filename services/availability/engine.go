package availability

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/catalog"
)

// Config carries the engine knobs, passed in at construction rather than
// read ambiently so the engine stays testable in isolation.
type Config struct {
	GranularityMin int
	DefaultDays    int
	PartyStrategy  string
	BusyTimeout    time.Duration
}

// DefaultEngine is the production availability engine.
type DefaultEngine struct {
	Catalog   catalog.ServiceCatalog
	Directory catalog.StaffDirectory
	Busy      BusySource
	Cache     *QueryCache // optional per-query busy cache
	Cfg       Config
	Logger    *zap.Logger
}

const (
	defaultLimit = 3
	maxParty     = 4
	maxDays      = 31
)

// Suggest computes one page of chronologically ordered slot candidates.
// Validation failures (unknown service/staff, empty bundle) return typed
// catalog errors before any external call; a busy-source failure for one
// staff member only excludes that member.
func (e *DefaultEngine) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	loc := e.Directory.Location()

	gran := e.Cfg.GranularityMin
	if gran <= 0 {
		gran = 30
	}
	days := req.Days
	if days <= 0 {
		days = e.Cfg.DefaultDays
	}
	if days <= 0 {
		days = 7
	}
	if days > maxDays {
		days = maxDays
	}
	party := req.Party
	if party < 1 {
		party = 1
	}
	if party > maxParty {
		party = maxParty
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	durationMin := req.DurationMin
	if durationMin <= 0 {
		resolved, err := e.Catalog.ResolveDuration(req.ServiceIDs)
		if err != nil {
			return nil, err
		}
		durationMin = resolved
	}
	need := time.Duration(durationMin) * time.Minute

	from := req.From
	if from.IsZero() {
		from = time.Now().In(loc)
	} else {
		from = from.In(loc)
	}

	staffIDs, err := e.candidateStaff(req.StaffID, from, days)
	if err != nil {
		return nil, err
	}

	result := &SuggestResult{QueryID: req.QueryID}
	if result.QueryID == "" {
		result.QueryID = uuid.New().String()
	}
	if len(staffIDs) == 0 {
		return result, nil
	}

	windowStart := dayFloor(from)
	windowEnd := windowStart.AddDate(0, 0, days)

	busyByStaff, degraded := e.fetchBusy(ctx, result.QueryID, staffIDs, windowStart, windowEnd)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	result.DegradedStaff = degraded

	strategy := e.Cfg.PartyStrategy
	if strategy == "" {
		strategy = PartyParallel
	}
	// The sequential strategy books one staff member for the whole run of
	// back-to-back appointments, so the scan window covers all of them.
	scanNeed := need
	if party > 1 && strategy == PartySequential {
		scanNeed = time.Duration(durationMin*party) * time.Minute
	}

	var all []models.SlotCandidate
	for _, staffID := range staffIDs {
		busy, ok := busyByStaff[staffID]
		if !ok {
			continue
		}
		all = append(all, e.scanStaff(staffID, busy, windowStart, days, from, scanNeed, gran)...)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].StaffID < all[j].StaffID
	})

	switch {
	case party == 1:
		slots := afterCursor(all, req.Cursor)
		if len(slots) > limit {
			slots = slots[:limit]
		}
		result.Slots = slots
		if len(slots) > 0 {
			last := slots[len(slots)-1].Start
			result.NextCursor = &last
		}
	case strategy == PartySequential:
		groups := sequentialGroups(all, party, need)
		groups = groupsAfterCursor(groups, req.Cursor)
		if len(groups) > limit {
			groups = groups[:limit]
		}
		result.Groups = groups
		if len(groups) > 0 {
			last := groups[len(groups)-1].Start
			result.NextCursor = &last
		}
	default:
		groups := parallelGroups(all, party)
		groups = groupsAfterCursor(groups, req.Cursor)
		if len(groups) > limit {
			groups = groups[:limit]
		}
		result.Groups = groups
		if len(groups) > 0 {
			last := groups[len(groups)-1].Start
			result.NextCursor = &last
		}
	}
	return result, nil
}

// candidateStaff resolves the staff set for a query: the requested member,
// or every directory member with at least one working day in the window.
func (e *DefaultEngine) candidateStaff(staffID string, from time.Time, days int) ([]string, error) {
	if staffID != "" && staffID != "any" {
		if _, err := e.Directory.StaffByID(staffID); err != nil {
			return nil, err
		}
		return []string{staffID}, nil
	}
	base := dayFloor(from)
	var ids []string
	for _, m := range e.Directory.ListStaff() {
		for offset := 0; offset < days; offset++ {
			shifts, err := e.Directory.ShiftsFor(m.ID, base.AddDate(0, 0, offset))
			if err == nil && len(shifts) > 0 {
				ids = append(ids, m.ID)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type busyResult struct {
	staffID string
	busy    []models.BusyInterval
	err     error
}

// fetchBusy fans out one calendar read per staff member and fans back in
// before any ranking happens, so output order never depends on completion
// order. Failed members are reported back as degraded, not fatal.
func (e *DefaultEngine) fetchBusy(ctx context.Context, queryID string, staffIDs []string, from, to time.Time) (map[string][]models.BusyInterval, []string) {
	out := make(map[string][]models.BusyInterval, len(staffIDs))
	var pending []string
	for _, id := range staffIDs {
		if e.Cache != nil {
			if busy, ok := e.Cache.Get(ctx, queryID, id); ok {
				out[id] = busy
				continue
			}
		}
		pending = append(pending, id)
	}
	if len(pending) == 0 {
		return out, nil
	}

	results := make(chan busyResult, len(pending))
	for _, id := range pending {
		go func(staffID string) {
			fetchCtx := ctx
			if e.Cfg.BusyTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, e.Cfg.BusyTimeout)
				defer cancel()
			}
			busy, err := e.Busy.GetBusy(fetchCtx, staffID, from, to)
			results <- busyResult{staffID: staffID, busy: busy, err: err}
		}(id)
	}

	var degraded []string
	for range pending {
		r := <-results
		if r.err != nil {
			e.Logger.Warn("busy source failed, excluding staff from this query",
				zap.String("staffID", r.staffID), zap.Error(r.err))
			degraded = append(degraded, r.staffID)
			continue
		}
		out[r.staffID] = r.busy
		if e.Cache != nil {
			e.Cache.Put(ctx, queryID, r.staffID, r.busy)
		}
	}
	sort.Strings(degraded)
	return out, degraded
}

// scanStaff walks one staff member's days, subtracts their busy set from
// each shift and discretizes the free sub-intervals into candidate starts.
func (e *DefaultEngine) scanStaff(staffID string, busy []models.BusyInterval, windowStart time.Time, days int, earliest time.Time, need time.Duration, gran int) []models.SlotCandidate {
	loc := windowStart.Location()
	spans := make([]Interval, 0, len(busy))
	for _, b := range busy {
		spans = append(spans, Interval{Start: b.Start.In(loc), End: b.End.In(loc)})
	}
	merged := MergeIntervals(spans)
	step := time.Duration(gran) * time.Minute

	var out []models.SlotCandidate
	for offset := 0; offset < days; offset++ {
		day := windowStart.AddDate(0, 0, offset)
		shifts, err := e.Directory.ShiftsFor(staffID, day)
		if err != nil {
			continue
		}
		for _, sr := range shifts {
			shift := Interval{
				Start: day.Add(time.Duration(sr.Start) * time.Minute),
				End:   day.Add(time.Duration(sr.End) * time.Minute),
			}
			for _, free := range Subtract(shift, merged) {
				if free.Duration() < need {
					continue
				}
				start := free.Start
				if start.Before(earliest) {
					start = earliest
				}
				// Starts land on wall-clock multiples of the granularity;
				// the end stays exact even for off-granularity durations.
				for t := ceilToStep(start, step); !t.Add(need).After(free.End); t = t.Add(step) {
					out = append(out, models.SlotCandidate{StaffID: staffID, Start: t, End: t.Add(need)})
				}
			}
		}
	}
	return out
}

// parallelGroups keeps only starts where at least `party` distinct staff are
// simultaneously free and emits exactly `party` members per group. Partial
// availability emits nothing for that start.
func parallelGroups(all []models.SlotCandidate, party int) []models.SlotGroup {
	byStart := make(map[int64][]models.SlotCandidate)
	var order []int64
	for _, c := range all {
		key := c.Start.Unix()
		if _, seen := byStart[key]; !seen {
			order = append(order, key)
		}
		byStart[key] = append(byStart[key], c)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	var groups []models.SlotGroup
	for _, key := range order {
		members := byStart[key]
		if len(members) < party {
			continue
		}
		// Candidates are already ordered by staff id within one start.
		groups = append(groups, models.SlotGroup{
			Start: members[0].Start,
			Party: party,
			Slots: append([]models.SlotCandidate(nil), members[:party]...),
		})
	}
	return groups
}

// sequentialGroups splits each long candidate (scanned at party x duration)
// into back-to-back windows handled by the same staff member.
func sequentialGroups(all []models.SlotCandidate, party int, each time.Duration) []models.SlotGroup {
	groups := make([]models.SlotGroup, 0, len(all))
	for _, c := range all {
		members := make([]models.SlotCandidate, 0, party)
		for i := 0; i < party; i++ {
			start := c.Start.Add(time.Duration(i) * each)
			members = append(members, models.SlotCandidate{
				StaffID: c.StaffID,
				Start:   start,
				End:     start.Add(each),
			})
		}
		groups = append(groups, models.SlotGroup{Start: c.Start, Party: party, Slots: members})
	}
	return groups
}

func afterCursor(slots []models.SlotCandidate, cursor *time.Time) []models.SlotCandidate {
	if cursor == nil {
		return slots
	}
	out := slots[:0:0]
	for _, s := range slots {
		if s.Start.After(*cursor) {
			out = append(out, s)
		}
	}
	return out
}

func groupsAfterCursor(groups []models.SlotGroup, cursor *time.Time) []models.SlotGroup {
	if cursor == nil {
		return groups
	}
	out := groups[:0:0]
	for _, g := range groups {
		if g.Start.After(*cursor) {
			out = append(out, g)
		}
	}
	return out
}

func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ceilToStep rounds t up to the next wall-clock multiple of step within its
// day, anchored at local midnight.
func ceilToStep(t time.Time, step time.Duration) time.Time {
	floor := dayFloor(t)
	elapsed := t.Sub(floor)
	rounded := elapsed.Truncate(step)
	if rounded < elapsed {
		rounded += step
	}
	return floor.Add(rounded)
}
