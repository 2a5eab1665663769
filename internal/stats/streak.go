package stats

import (
	"sort"
	"time"
)

// Streaks holds the active and the all-time longest run of consecutive reading days
type Streaks struct {
	Current int `json:"current_streak"`
	Max     int `json:"max_streak"`
}

// ComputeStreaks derives both streaks from the entries' distinct dates
func ComputeStreaks(entries []Entry, today time.Time) Streaks {
	dates := entryDates(entries, AllTime)
	return Streaks{
		Current: CurrentStreak(dates, today),
		Max:     MaxStreak(dates),
	}
}

// CurrentStreak counts consecutive reading days ending at the most recent reading day.
// The streak is alive while that day is today or yesterday; after that it is 0.
// Duplicate dates count once.
func CurrentStreak(dates []time.Time, today time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}

	latest := days[len(days)-1]
	if dayNumber(calendarDay(today))-latest > 1 {
		return 0
	}

	seen := make(map[int64]struct{}, len(days))
	for _, d := range days {
		seen[d] = struct{}{}
	}

	streak := 0
	for d := latest; ; d-- {
		if _, ok := seen[d]; !ok {
			break
		}
		streak++
	}
	return streak
}

// MaxStreak returns the longest run of consecutive calendar days among dates
func MaxStreak(dates []time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// distinctDays converts dates to sorted, de-duplicated day numbers
func distinctDays(dates []time.Time) []int64 {
	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, date := range dates {
		d := dayNumber(calendarDay(date))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func entryDates(entries []Entry, year int) []time.Time {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if e.inYear(year) {
			dates = append(dates, e.Date)
		}
	}
	return dates
}
