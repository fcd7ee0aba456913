package domain

import (
	"cmp"
	"slices"
	"time"
)

// TimelineDay is one date of the timeline with its activities ordered by time.
type TimelineDay struct {
	Date       time.Time
	Activities []Activity
}

// GroupByDate groups activities by calendar date. Days are returned in
// ascending date order and activities within a day in ascending time order;
// activities at the same time keep their input order.
func GroupByDate(activities []Activity) []TimelineDay {
	byDate := make(map[time.Time][]Activity)
	for _, a := range activities {
		d := DateOnly(a.Date)
		byDate[d] = append(byDate[d], a)
	}

	days := make([]TimelineDay, 0, len(byDate))
	for d, acts := range byDate {
		slices.SortStableFunc(acts, func(a, b Activity) int {
			return cmp.Compare(a.Time, b.Time)
		})
		days = append(days, TimelineDay{Date: d, Activities: acts})
	}
	slices.SortFunc(days, func(a, b TimelineDay) int {
		return a.Date.Compare(b.Date)
	})
	return days
}

// SortChronological returns a copy of activities ordered by (date, time).
func SortChronological(activities []Activity) []Activity {
	out := slices.Clone(activities)
	slices.SortStableFunc(out, func(a, b Activity) int {
		if c := DateOnly(a.Date).Compare(DateOnly(b.Date)); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
	if out == nil {
		out = []Activity{}
	}
	return out
}
