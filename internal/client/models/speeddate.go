package models

import (
	"sort"
	"time"
)

// DayGroup holds the items starting on one calendar day.
type DayGroup[T any] struct {
	Day   time.Time // midnight in the grouping location
	Items []T
}

// GroupByDay sorts items by begin and groups them per calendar day in loc.
// Groups are in chronological order; input is not modified.
func GroupByDay[T any](items []T, begin func(T) time.Time, loc *time.Location) []DayGroup[T] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return begin(sorted[i]).Before(begin(sorted[j]))
	})

	var groups []DayGroup[T]
	for _, it := range sorted {
		t := begin(it).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, DayGroup[T]{Day: day, Items: []T{it}})
	}
	return groups
}

func SpeedDateBegin(d SpeedDate) time.Time { return d.Begin }

func SlotBegin(s Slot) time.Time { return s.Begin }
