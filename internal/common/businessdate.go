// Package common provides shared utilities for Folio
package common

import "time"

// Cutoff hours for the two business-date concerns. FX rates are published
// by the Eximbank around 11:00 local time, so everything on the rate side
// (staleness checks, provider search dates, persisted update dates) uses
// RateCutoffHour. Price vendors settle the day's prints by about 20:00, so
// the quote side uses QuoteCutoffHour throughout.
const (
	RateCutoffHour  = 11
	QuoteCutoffHour = 20
)

// LatestBusinessDate computes the trading-session reference date for a
// given wall-clock time. Before the cutoff hour the previous calendar day
// is used, and weekends roll back to the most recent Friday. The result is
// truncated to midnight in now's location.
func LatestBusinessDate(now time.Time, cutoffHour int) time.Time {
	day := now
	if now.Hour() < cutoffHour {
		day = day.AddDate(0, 0, -1)
	}
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

// IsStale reports whether a stored update timestamp belongs to an earlier
// session than the reference business date. A zero timestamp is always
// stale. Comparison is by calendar date only: a record dated on or after
// the business date is current.
func IsStale(updatedAt time.Time, businessDate time.Time) bool {
	if updatedAt.IsZero() {
		return true
	}
	uy, um, ud := updatedAt.Year(), updatedAt.Month(), updatedAt.Day()
	by, bm, bd := businessDate.Year(), businessDate.Month(), businessDate.Day()
	if uy != by {
		return uy < by
	}
	if um != bm {
		return um < bm
	}
	return ud < bd
}
