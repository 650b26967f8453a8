package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// PalletCheck is one timed inspection of a single physical pallet.
// A check is mutable only while it is the session's current check; once
// finalized and appended to the day it is treated as immutable.
type PalletCheck struct {
	ID        uuid.UUID
	Code      string
	BoxCount  int
	StartedAt time.Time
	EndedAt   *time.Time
	// Duration is the formatted elapsed time ("m:ss"), computed on completion.
	Duration string
	Errors   []ErrorReport
}

// HasErrors reports whether any defects were recorded for this check.
func (c *PalletCheck) HasErrors() bool {
	return len(c.Errors) > 0
}

// DurationSeconds returns the whole-second duration between two instants,
// rounded to nearest.
func DurationSeconds(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Seconds()))
}

// FormatDuration renders a second count as "m:ss" with seconds zero-padded
// to two digits, e.g. 125 -> "2:05", 59 -> "0:59".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
