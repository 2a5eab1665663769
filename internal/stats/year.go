package stats

import (
	"fmt"
	"strconv"
	"time"
)

// MinYear is the earliest year a report can be requested for
const MinYear = 2000

// ParseYear reads a year argument; empty means the year of today.
// Years before MinYear or after the year of today are rejected.
func ParseYear(raw string, today time.Time) (int, error) {
	if raw == "" {
		return today.Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	if year < MinYear || year > today.Year() {
		return 0, fmt.Errorf("year must be between %d and %d", MinYear, today.Year())
	}
	return year, nil
}
