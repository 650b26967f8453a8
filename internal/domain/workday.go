package domain

import "time"

// WorkDay is one open/close cycle of shift tracking, bounded by explicit
// start and end actions. EndedAt set implies Open == false.
type WorkDay struct {
	StartedAt *time.Time
	EndedAt   *time.Time
	Open      bool
	// Checks holds today's completed checks in completion order. The current
	// in-flight check is not part of this list until finalized.
	Checks []PalletCheck
	// PalletsChecked is the completed-check counter persisted with the day.
	PalletsChecked int
}

// DayTotals are today's aggregates, derived from the completed-check list.
// They are never authoritative: recompute with ComputeTotals after every
// mutation and on every load.
type DayTotals struct {
	Pallets int
	Boxes   int
	Errors  int
}

// ComputeTotals folds the completed-check list into daily totals. Pure and
// deterministic; computed from scratch on every call, never cached
// incrementally.
func ComputeTotals(checks []PalletCheck) DayTotals {
	totals := DayTotals{Pallets: len(checks)}
	for _, c := range checks {
		totals.Boxes += c.BoxCount
		totals.Errors += len(c.Errors)
	}
	return totals
}

// ArchivedDay is the immutable snapshot of a closed work day kept in History.
type ArchivedDay struct {
	WorkStart      *time.Time
	WorkEnd        *time.Time
	PalletsChecked int
	Checks         []PalletCheck
}

// History maps a calendar-date key (YYYY-MM-DD) to an archived work day.
// Re-archiving the same date overwrites the entry (last write wins), which
// supports multiple close-then-reopen cycles within one calendar day.
type History map[string]ArchivedDay

// DateKey renders an instant as the calendar-date key used by History.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
