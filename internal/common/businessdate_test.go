package common

import (
	"testing"
	"time"
)

func TestLatestBusinessDate_AfterCutoffWeekday(t *testing.T) {
	// Tuesday 15:00, cutoff 11 -> same day
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	got := LatestBusinessDate(now, RateCutoffHour)

	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLatestBusinessDate_BeforeCutoffStepsBack(t *testing.T) {
	// Tuesday 09:00, cutoff 11 -> Monday
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	got := LatestBusinessDate(now, RateCutoffHour)

	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLatestBusinessDate_MondayMorningRollsToFriday(t *testing.T) {
	// Monday 08:00, cutoff 20 -> previous Friday
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	got := LatestBusinessDate(now, QuoteCutoffHour)

	want := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLatestBusinessDate_WeekendRollsToFriday(t *testing.T) {
	// Sunday 23:00 -> Friday regardless of cutoff
	now := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	for _, cutoff := range []int{RateCutoffHour, QuoteCutoffHour} {
		got := LatestBusinessDate(now, cutoff)
		want := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("cutoff %d: expected %v, got %v", cutoff, want, got)
		}
	}
}

func TestLatestBusinessDate_NeverWeekend(t *testing.T) {
	// Sweep every hour across four weeks for both cutoffs.
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, cutoff := range []int{RateCutoffHour, QuoteCutoffHour} {
		for h := 0; h < 28*24; h++ {
			now := start.Add(time.Duration(h) * time.Hour)
			got := LatestBusinessDate(now, cutoff)
			if wd := got.Weekday(); wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("business date for %v (cutoff %d) is a %v", now, cutoff, wd)
			}
		}
	}
}

func TestLatestBusinessDate_AtOrAfterCutoffIsIdentity(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, cutoff := range []int{RateCutoffHour, QuoteCutoffHour} {
		for h := 0; h < 28*24; h++ {
			now := start.Add(time.Duration(h) * time.Hour)
			if now.Hour() < cutoff {
				continue
			}
			if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			got := LatestBusinessDate(now, cutoff)
			want := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			if !got.Equal(want) {
				t.Fatalf("expected %v for %v (cutoff %d), got %v", want, now, cutoff, got)
			}
		}
	}
}

func TestLatestBusinessDate_StripsTimeComponent(t *testing.T) {
	now := time.Date(2026, 3, 11, 14, 37, 22, 991, time.UTC)
	got := LatestBusinessDate(now, RateCutoffHour)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestIsStale_ZeroTimestamp(t *testing.T) {
	businessDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !IsStale(time.Time{}, businessDate) {
		t.Error("zero timestamp should be stale")
	}
}

func TestIsStale_DifferentDate(t *testing.T) {
	businessDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	if !IsStale(updatedAt, businessDate) {
		t.Error("yesterday's record should be stale")
	}
}

func TestIsStale_SameDateNotStale(t *testing.T) {
	// A record refreshed at business date D is never stale against D,
	// regardless of the time-of-day component.
	businessDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, hour := range []int{0, 9, 12, 23} {
		updatedAt := time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
		if IsStale(updatedAt, businessDate) {
			t.Errorf("record updated at %v should not be stale against %v", updatedAt, businessDate)
		}
	}
}

func TestIsStale_FutureDateNotStale(t *testing.T) {
	// An intraday quote can be dated after the session boundary; it is
	// current, not stale, so the next pass does not refetch it.
	businessDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if IsStale(updatedAt, businessDate) {
		t.Error("record dated after the business date should not be stale")
	}
}
